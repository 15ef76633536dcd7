package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRejectsMalformedDSN(t *testing.T) {
	// A DSN the driver cannot parse fails at the ping stage without ever
	// touching the network.
	conn, err := Connect("this is not a connection string", time.Second)
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.Contains(t, err.Error(), "failed to ping database")
}
