package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

type mailCall struct {
	to      []string
	subject string
	html    string
}

func insertNotificationSteps() []*queryStep {
	return []*queryStep{
		{kind: kindBegin},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notifications`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{kind: kindCommit},
	}
}

func TestCreateAndSendPersistsRecordAndEmails(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, insertNotificationSteps())
	defer cleanup()

	var sent []mailCall
	svc := &NotificationService{
		db: gormDB,
		sendMail: func(to []string, subject, html string) error {
			sent = append(sent, mailCall{to: to, subject: subject, html: html})
			return nil
		},
	}

	related := uint(7)
	err := svc.CreateAndSend(context.Background(),
		NotificationRecipient{ID: 1, Email: "u@example.com"},
		"New Camera-Ready Assignment", "Paper X is ready for you.", &related)
	require.NoError(t, err)
	require.NoError(t, state.verifyComplete())

	require.Len(t, sent, 1)
	require.Equal(t, []string{"u@example.com"}, sent[0].to)
	require.Equal(t, "New Camera-Ready Assignment", sent[0].subject)
	require.Contains(t, sent[0].html, "Paper X is ready for you.")
}

func TestCreateAndSendSwallowsEmailFailure(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, insertNotificationSteps())
	defer cleanup()

	svc := &NotificationService{
		db: gormDB,
		sendMail: func([]string, string, string) error {
			return errors.New("smtp unreachable")
		},
	}

	err := svc.CreateAndSend(context.Background(),
		NotificationRecipient{ID: 1, Email: "u@example.com"},
		"Title", "Body", nil)
	require.NoError(t, err, "a failed email must not undo the stored notification")
	require.NoError(t, state.verifyComplete())
}

func TestCreateAndSendSkipsEmailWithoutAddress(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, insertNotificationSteps())
	defer cleanup()

	svc := &NotificationService{
		db: gormDB,
		sendMail: func([]string, string, string) error {
			t.Fatal("sendMail must not be called without a recipient address")
			return nil
		},
	}

	err := svc.CreateAndSend(context.Background(),
		NotificationRecipient{ID: 1}, "Title", "Body", nil)
	require.NoError(t, err)
	require.NoError(t, state.verifyComplete())
}

func TestCreateAndSendReturnsInsertError(t *testing.T) {
	boom := errors.New("table gone")
	steps := []*queryStep{
		{kind: kindBegin},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notifications`"),
			err:     boom,
		},
		{kind: kindRollback},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	called := false
	svc := &NotificationService{
		db: gormDB,
		sendMail: func([]string, string, string) error {
			called = true
			return nil
		},
	}

	err := svc.CreateAndSend(context.Background(),
		NotificationRecipient{ID: 1, Email: "u@example.com"}, "Title", "Body", nil)
	require.Error(t, err)
	require.False(t, called, "no email may be attempted when the record was not stored")
	require.NoError(t, state.verifyComplete())
}
