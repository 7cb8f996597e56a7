package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Publish(t *testing.T) {
	t.Parallel()

	m := &Memory{}
	ctx := context.Background()
	require.NoError(t, m.Publish(ctx, Event{Type: ProductCreated, EntityID: "a"}))
	require.NoError(t, m.Publish(ctx, Event{Type: ProductDeleted, EntityID: "a"}))

	assert.Equal(t, []string{ProductCreated, ProductDeleted}, m.Types())

	got := m.Events()
	got[0].Type = "mutated"
	assert.Equal(t, ProductCreated, m.Events()[0].Type)
}

func TestMemory_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	m := &Memory{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Publish(context.Background(), Event{Type: IngredientCreated})
		}()
	}
	wg.Wait()

	assert.Len(t, m.Events(), 16)
}

func TestNoop_Publish(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Noop{}.Publish(context.Background(), Event{Type: UserRegistered}))
}

func TestKafkaPublisher_UnreachableBroker(t *testing.T) {
	t.Parallel()

	p := NewKafkaPublisher([]string{"127.0.0.1:1"}, "catalog_events")
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := p.Publish(ctx, Event{Type: ProductCreated, EntityID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ProductCreated)
}
