package orm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/pkg/cache"
	"github.com/shashiranjanraj/eatn/pkg/orm"
)

func TestBounded(t *testing.T) {
	ctx, cancel := orm.Bounded(context.Background(), 50*time.Millisecond)
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 20*time.Millisecond)

	ctx2, cancel2 := orm.Bounded(context.Background(), 0)
	defer cancel2()
	_, ok = ctx2.Deadline()
	assert.False(t, ok)
}

func TestClassification(t *testing.T) {
	assert.True(t, orm.IsNotFound(gorm.ErrRecordNotFound))
	assert.False(t, orm.IsNotFound(errors.New("boom")))

	assert.True(t, orm.IsDuplicate(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, orm.IsDuplicate(errors.New("Error 1062: Duplicate entry 'x' for key 'email'")))
	assert.True(t, orm.IsDuplicate(gorm.ErrDuplicatedKey))
	assert.False(t, orm.IsDuplicate(nil))
	assert.False(t, orm.IsDuplicate(errors.New("connection refused")))
}

func TestRememberWithoutRedisAlwaysLoads(t *testing.T) {
	cache.RDB = nil
	calls := 0
	var out []string
	load := func() error {
		calls++
		out = []string{"finagle"}
		return nil
	}

	require.NoError(t, orm.Remember(context.Background(), "k", time.Minute, &out, load))
	require.NoError(t, orm.Remember(context.Background(), "k", time.Minute, &out, load))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"finagle"}, out)
}
