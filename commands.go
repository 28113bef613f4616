package guestentries

import (
	"strings"

	"github.com/goliatone/go-guestentries/entries"
	guestentrycmd "github.com/goliatone/go-guestentries/internal/commands/guestentry"
	"github.com/google/uuid"
)

func createCommand(sub Submission) guestentrycmd.CreateEntryCommand {
	return guestentrycmd.CreateEntryCommand{Submission: sub}
}

func updateCommand(sub Submission) guestentrycmd.UpdateEntryCommand {
	return guestentrycmd.UpdateEntryCommand{Submission: sub}
}

func deleteCommand(sub Submission) guestentrycmd.DeleteEntryCommand {
	return guestentrycmd.DeleteEntryCommand{Submission: sub}
}

func parseEntryID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, entries.NotFound("entry", trimmed)
	}
	return id, nil
}
