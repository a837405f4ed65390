package main

import (
	"context"
	"github.com/myrjola/reelcheck/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
	"time"
)

func TestRootCmd(t *testing.T) {
	logger := testhelpers.NewLogger(io.Discard)

	t.Run("defaults", func(t *testing.T) {
		cmd := newRootCmd(logger)
		addr, err := cmd.Flags().GetString("addr")
		require.NoError(t, err)
		require.Equal(t, "localhost:8000", addr)
		delay, err := cmd.Flags().GetDuration("check-delay")
		require.NoError(t, err)
		require.Equal(t, 2*time.Second, delay)
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		cmd := newRootCmd(logger)
		cmd.SetArgs([]string{"unexpected"})
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		require.Error(t, cmd.Execute())
	})
}

func TestServe_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, testhelpers.NewLogger(io.Discard), options{
			addr:       "localhost:0",
			email:      "analyst@example.com",
			password:   "password",
			checkDelay: 0,
		})
	}()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
