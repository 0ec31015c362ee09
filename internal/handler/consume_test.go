package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// A consumer-group rebalance makes sarama call Setup again on the same
// handler instance; the session hooks must survive any number of sessions.
func TestConsumer_SetupSurvivesRebalance(t *testing.T) {
	t.Parallel()

	consumer := NewConsumer(nil, zap.NewNop())
	require.NotPanics(t, func() {
		require.NoError(t, consumer.Setup(nil))
		require.NoError(t, consumer.Cleanup(nil))
		require.NoError(t, consumer.Setup(nil))
		require.NoError(t, consumer.Cleanup(nil))
	})
}
