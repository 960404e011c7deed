package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"DailyHaiku/internal/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMsg = &interfaces.EmailMessage{
	From:    "Daily Haiku <haiku@example.com>",
	To:      []string{"reader@example.com"},
	Subject: "Haiku del día",
	Text:    "furuike ya",
}

func TestClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body sendEmailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testMsg.To, body.To)
		assert.Equal(t, testMsg.Subject, body.Subject)
		assert.Equal(t, testMsg.Text, body.Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "re_test"}, logrus.New())
	id, err := c.Send(context.Background(), testMsg)
	require.NoError(t, err)
	assert.Equal(t, "msg_123", id)
}

func TestClient_SendNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "re_test"}, logrus.New())
	_, err := c.Send(context.Background(), testMsg)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "Invalid from", statusErr.Message)
}

func TestClient_SendNotConfigured(t *testing.T) {
	c := NewClient(Config{}, logrus.New())
	_, err := c.Send(context.Background(), testMsg)
	assert.ErrorIs(t, err, ErrNotConfigured)

	c = NewClient(Config{APIKey: "re_test"}, logrus.New())
	_, err = c.Send(context.Background(), &interfaces.EmailMessage{Subject: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
