package inmemdb

import (
	"sync"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/quiz"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/story"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

type completionKey struct {
	userID, storyID string
}

// DB is an in-memory database shared by the repositories of this package.
// A single lock guards every table so that multi-table writes are atomic.
type DB struct {
	sync.RWMutex
	users       map[string]*user.User
	stories     map[string]*story.Story
	completions map[completionKey]*quiz.Completion
}

func Open() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		stories:     make(map[string]*story.Story),
		completions: make(map[completionKey]*quiz.Completion),
	}
}

// Reset empties every table.
func (db *DB) Reset() {
	db.Lock()
	defer db.Unlock()
	db.users = make(map[string]*user.User)
	db.stories = make(map[string]*story.Story)
	db.completions = make(map[completionKey]*quiz.Completion)
}
