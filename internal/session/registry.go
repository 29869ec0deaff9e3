package session

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const defaultShardCount = 32

type shard struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// Registry maps room ids to rooms. Ids are spread over independently locked shards
// so that lookups for unrelated rooms do not contend.
type Registry struct {
	shards []*shard
}

func NewRegistry() *Registry {
	return NewRegistryWithShards(defaultShardCount)
}

func NewRegistryWithShards(count int) *Registry {
	if count < 1 {
		count = 1
	}

	shards := make([]*shard, count)
	for i := range shards {
		shards[i] = &shard{rooms: make(map[string]*Room)}
	}

	return &Registry{shards: shards}
}

func (that *Registry) shardFor(id string) *shard {
	return that.shards[xxhash.Sum64String(id)%uint64(len(that.shards))]
}

// Put installs room under id, replacing any room already stored there.
func (that *Registry) Put(id string, room *Room) {
	s := that.shardFor(id)

	s.mu.Lock()
	s.rooms[id] = room
	s.mu.Unlock()
}

func (that *Registry) Get(id string) (*Room, bool) {
	s := that.shardFor(id)

	s.mu.RLock()
	room, ok := s.rooms[id]
	s.mu.RUnlock()

	return room, ok
}

func (that *Registry) Delete(id string) {
	s := that.shardFor(id)

	s.mu.Lock()
	delete(s.rooms, id)
	s.mu.Unlock()
}

func (that *Registry) Len() int {
	total := 0
	for _, s := range that.shards {
		s.mu.RLock()
		total += len(s.rooms)
		s.mu.RUnlock()
	}
	return total
}

// IDs returns the stored room ids in ascending order.
func (that *Registry) IDs() []string {
	ids := make([]string, 0)
	for _, s := range that.shards {
		s.mu.RLock()
		for id := range s.rooms {
			ids = append(ids, id)
		}
		s.mu.RUnlock()
	}

	sort.Strings(ids)

	return ids
}
