package monitor_test

import (
	"testing"

	"github.com/aviu16/mercury-bot/pkg/monitor"
	"github.com/stretchr/testify/assert"
)

func TestSeenSet_Add(t *testing.T) {
	set := monitor.NewSeenSet()

	assert.True(t, set.Add("tx1"))
	assert.False(t, set.Add("tx1"))
	assert.True(t, set.Add("tx2"))
	assert.Equal(t, 2, set.Len())
}

func TestSeenSet_Contains(t *testing.T) {
	set := monitor.NewSeenSet()
	set.Add("tx1")

	assert.True(t, set.Contains("tx1"))
	assert.False(t, set.Contains("tx2"))
}

func TestSeenSet_AddAll(t *testing.T) {
	set := monitor.NewSeenSet()
	set.AddAll([]string{"tx1", "tx2", "", "tx1"})

	assert.Equal(t, 2, set.Len())
	assert.False(t, set.Contains(""))
}
