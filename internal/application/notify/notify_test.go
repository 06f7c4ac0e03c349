package notify_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/notify"
	"github.com/jhoicas/Caja-api/pkg/logger"
)

func TestInbox_DrainYLimite(t *testing.T) {
	ctx := context.Background()
	in := notify.NewInbox(2)
	for i := 0; i < 3; i++ {
		in.Notify(ctx, "u", fmt.Sprintf("m%d", i), notify.Info)
	}
	in.Notify(ctx, "otro", "x", notify.Error)

	got := in.Drain("u")
	require.Len(t, got, 2)
	assert.Equal(t, "m1", got[0].Message)
	assert.Equal(t, "m2", got[1].Message)
	assert.Empty(t, in.Drain("u"))
	assert.Len(t, in.Drain("otro"), 1)
}

func TestMulti_YLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(logger.Config{Env: "production", Level: "info"}, &buf)
	in := notify.NewInbox(0)

	notify.Multi{notify.NewLogNotifier(log), in}.Notify(context.Background(), "u", "Venda finalizada", notify.Success)

	assert.Len(t, in.Drain("u"), 1)
	assert.Contains(t, buf.String(), `"message":"Venda finalizada"`)
	assert.Contains(t, buf.String(), `"component":"notify"`)
}
