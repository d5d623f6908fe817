package sender

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/taskflow/internal/lib/rabbitmq"
)

func TestQueueNotifier_SendVerificationCode(t *testing.T) {
	t.Run("publishes message", func(t *testing.T) {
		pub := new(MockPublisher)
		var published VerificationMessage
		pub.On("Publish", rabbitmq.NotificationsExchange, rabbitmq.VerificationKey, false, false,
			mock.MatchedBy(func(p amqp.Publishing) bool {
				return json.Unmarshal(p.Body, &published) == nil
			})).Return(nil).Once()

		n := NewQueueNotifier(newNoopLogger(), pub)
		require.NoError(t, n.SendVerificationCode(context.Background(), "alice@example.com", "123456"))

		assert.Equal(t, "alice@example.com", published.Email)
		assert.Equal(t, "123456", published.Code)
		_, err := uuid.Parse(published.ID)
		assert.NoError(t, err)
		pub.AssertExpectations(t)
	})

	t.Run("publish error", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
			Return(amqp.ErrClosed).Once()

		n := NewQueueNotifier(newNoopLogger(), pub)
		err := n.SendVerificationCode(context.Background(), "alice@example.com", "123456")
		require.ErrorIs(t, err, amqp.ErrClosed)
	})
}

func TestWorker_HandleVerificationMessage(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		sendErr   error
		wantSend  bool
		wantError bool
	}{
		{
			name:     "delivers code",
			body:     `{"id":"m1","email":"alice@example.com","code":"123456"}`,
			wantSend: true,
		},
		{
			name:      "delivery failure requeues",
			body:      `{"id":"m1","email":"alice@example.com","code":"123456"}`,
			sendErr:   errors.New("smtp down"),
			wantSend:  true,
			wantError: true,
		},
		{
			name: "invalid json is dropped",
			body: `not json`,
		},
		{
			name: "missing code is dropped",
			body: `{"id":"m1","email":"alice@example.com"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := new(MockNotifier)
			if tt.wantSend {
				notifier.On("SendVerificationCode", mock.Anything, "alice@example.com", "123456").
					Return(tt.sendErr).Once()
			}

			w := NewWorker(newNoopLogger(), notifier)
			err := w.HandleVerificationMessage(context.Background(), []byte(tt.body))

			if tt.wantError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			notifier.AssertExpectations(t)
			if !tt.wantSend {
				notifier.AssertNotCalled(t, "SendVerificationCode", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
