package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/notify"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

func TestAppendedPublishesRow(t *testing.T) {
	producer := mocks.NewSyncProducer(t, notify.NewConfig())
	row := []string{"2024-05-01T06:00:00Z", "2024-05-01", "BPS-95", "Depot", "5000"}

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var msg notify.Message
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.Worksheet != store.Receipts.Title || msg.Operator != "bob" || msg.RequestID != "req-9" {
			return errors.New("unexpected message metadata")
		}
		if len(msg.Values) != len(row) || msg.Values[2] != "BPS-95" || msg.ID == "" {
			return errors.New("unexpected message values")
		}
		return nil
	})

	k := notify.NewKafkaWithProducer(producer, "fuel-transactions")
	ctx := logging.WithRequestID(context.Background(), "req-9")
	k.Appended(ctx, store.Receipts, row, "bob")
	require.NoError(t, k.Close())
}

func TestAppendedSwallowsPublishErrors(t *testing.T) {
	producer := mocks.NewSyncProducer(t, notify.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := notify.NewKafkaWithProducer(producer, "fuel-transactions")
	assert.NotPanics(t, func() {
		k.Appended(context.Background(), store.Dispensing, make([]string, len(store.Dispensing.Header)), "alice")
	})
	require.NoError(t, k.Close())
}
