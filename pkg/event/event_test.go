package event_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/eatn/pkg/event"
)

func TestFireRunsListenersInOrder(t *testing.T) {
	event.Flush()
	defer event.Flush()

	var got []string
	event.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "a:"+p.(string)) })
	event.Listen("order.placed", func(_ context.Context, p any) { got = append(got, "b:"+p.(string)) })
	event.Listen("other", func(context.Context, any) { got = append(got, "other") })

	event.Fire(context.Background(), "order.placed", "7")

	assert.Equal(t, []string{"a:7", "b:7"}, got)
	assert.Equal(t, 2, event.Count("order.placed"))
}

func TestFireSurvivesPanickingListener(t *testing.T) {
	event.Flush()
	defer event.Flush()

	ran := false
	event.Listen("x", func(context.Context, any) { panic("boom") })
	event.Listen("x", func(context.Context, any) { ran = true })

	assert.NotPanics(t, func() { event.Fire(context.Background(), "x", nil) })
	assert.True(t, ran)
}
