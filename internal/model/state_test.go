package model

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStateIsEmpty(t *testing.T) {
	s := NewState()
	assert.True(t, s.Snapshot().Equal(NewGameSave()))
}

func TestZeroStateAcceptsCollectionWrites(t *testing.T) {
	var s State
	assert.NotPanics(t, func() {
		s.SetBuilding("farm", float64(2))
		s.SetUpgrade("hoe", true)
		s.SetSkin("gold", true)
	})

	snap := s.Snapshot()
	assert.Equal(t, float64(2), snap.Buildings["farm"])
	assert.Equal(t, true, snap.Upgrades["hoe"])
	assert.Equal(t, true, snap.Skins["gold"])
}

func TestHarvestAndSpend(t *testing.T) {
	s := NewState()
	s.Harvest(100)
	s.Harvest(-5)

	assert.Equal(t, float64(100), s.Potatoes())
	assert.Equal(t, float64(100), s.AllTimePotatoes())

	assert.True(t, s.Spend(40))
	assert.False(t, s.Spend(61))
	assert.True(t, s.Spend(0))

	// Spending never lowers the lifetime counter
	assert.Equal(t, float64(60), s.Potatoes())
	assert.Equal(t, float64(100), s.AllTimePotatoes())
}

func TestReplaceNormalizesAndDropsLastSaved(t *testing.T) {
	s := NewState()
	now := time.Now()
	s.Replace(GameSave{Potatoes: -1, AllTimePotatoes: 50, LastSaved: &now})

	snap := s.Snapshot()
	assert.Equal(t, float64(0), snap.Potatoes)
	assert.Equal(t, float64(50), snap.AllTimePotatoes)
	assert.NotNil(t, snap.Buildings)
	assert.Nil(t, snap.LastSaved)
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := NewState()
	s.SetBuilding("farm", float64(1))

	snap := s.Snapshot()
	snap.Buildings["farm"] = float64(9)
	s.SetUpgrade("hoe", true)
	s.SetSkin("gold", true)

	again := s.Snapshot()
	assert.Equal(t, float64(1), again.Buildings["farm"])
	assert.Equal(t, true, again.Upgrades["hoe"])
	assert.Equal(t, true, again.Skins["gold"])
	assert.NotContains(t, snap.Upgrades, "hoe")
}

func TestConcurrentHarvest(t *testing.T) {
	s := NewState()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Harvest(2)
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(100), s.AllTimePotatoes())
}
