/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// service.go owns the note service shared by all commands.
//
// The service is opened once, on first use, by PersistentPreRunE. Commands
// listed in noStoreCommands manage without it or open their own.

package cmd

import (
	"fmt"
	"sync"

	"github.com/jpl-au/pim/internal/log"
	"github.com/jpl-au/pim/internal/notes"
	"github.com/jpl-au/pim/internal/service"
)

// noStoreCommands lists commands that bypass automatic store opening.
// init creates the store, config and version do not need it, and serve
// manages its own service lifecycle so it can start uninitialised.
var noStoreCommands = map[string]bool{
	"init":       true,
	"config":     true,
	"version":    true,
	"serve":      true,
	"help":       true,
	"completion": true,
}

// ownerRequiredCommands lists commands that act for an owner.
var ownerRequiredCommands = map[string]bool{
	"new":    true,
	"show":   true,
	"ls":     true,
	"title":  true,
	"body":   true,
	"tag":    true,
	"rm":     true,
	"search": true,
	"import": true,
	"export": true,
}

var (
	svc     *notes.Service
	svcOnce sync.Once
	svcErr  error
)

// openService discovers the repository and opens its store.
func openService() error {
	svcOnce.Do(func() {
		s, err := notes.New(Backend())
		if err != nil {
			svcErr = fmt.Errorf("opening store: %w", err)
			return
		}
		svc = s

		// Set project identifier for audit logging
		log.SetProject(s.Location().Root)
	})
	return svcErr
}

// Service returns the open note service. Only valid in commands not listed
// in noStoreCommands.
func Service() service.Service {
	return svc
}

func closeService() error {
	if svc == nil {
		return nil
	}
	err := svc.Close()
	svc = nil
	return err
}
