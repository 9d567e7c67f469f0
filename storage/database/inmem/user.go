package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core"
	"github.com/deekhaled7-bit/Writing-Ninja-Academy-sub001/core/user"
)

var userOrderingFields = []string{"name", "username", "email", "created_at", "updated_at", "last_login"}

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.users))
	for _, u := range repo.db.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(_ context.Context, username, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.query() {
		if isExcluded(usr, excludedUsers) {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) Create(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr.StoriesUploaded, usr.RewardPoints = 0, 0
	usr.BeltTier, usr.LevelTier = 0, 0
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) Filter(_ context.Context, filter *user.QueryFilter, orderings []core.DBOrdering) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]user.User, 0)
	for _, usr := range repo.query() {
		if matches(usr, filter) {
			users = append(users, usr)
		}
	}
	orderUsers(users, core.FilterOrderings(orderings, userOrderingFields...))
	return users, nil
}

func (repo *userRepository) get(match func(u *user.User) bool) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.users {
		if match(usr) {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetByID(_ context.Context, id string) (user.User, error) {
	return repo.get(func(u *user.User) bool { return u.ID == id })
}

func (repo *userRepository) GetByUsername(_ context.Context, username string) (user.User, error) {
	return repo.get(func(u *user.User) bool { return username != "" && u.Username == username })
}

func (repo *userRepository) GetByEmail(_ context.Context, email string) (user.User, error) {
	return repo.get(func(u *user.User) bool { return email != "" && u.Email == email })
}

func (repo *userRepository) GetByUsernameOrEmail(_ context.Context, username string) (user.User, error) {
	return repo.get(func(u *user.User) bool {
		return username != "" && (u.Username == username || u.Email == username)
	})
}

func (repo *userRepository) Update(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.users[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	orig.Name = usr.Name
	orig.Username = usr.Username
	orig.Email = usr.Email
	orig.IsActive = usr.IsActive
	orig.Roles = usr.Roles
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	orig.UpdatedAt = usr.UpdatedAt
	orig.LastLogin = usr.LastLogin
	return *orig, nil
}

func (repo *userRepository) Delete(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.users, id)
		for sid, s := range repo.db.stories {
			if s.AuthorID == id {
				delete(repo.db.stories, sid)
			}
		}
		for key := range repo.db.completions {
			if key.userID == id {
				delete(repo.db.completions, key)
			}
		}
	}
	return nil
}

func isExcluded(usr user.User, excludedUsers []user.User) bool {
	for _, u := range excludedUsers {
		if u.ID == usr.ID {
			return true
		}
	}
	return false
}

func matches(usr user.User, filter *user.QueryFilter) bool {
	if filter.IsEmpty() {
		return true
	}
	if filter.Search != "" {
		s := strings.ToLower(filter.Search)
		if !(strings.Contains(strings.ToLower(usr.Name), s) ||
			strings.Contains(usr.Username, s) ||
			strings.Contains(usr.Email, s)) {
			return false
		}
	}
	if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
		return false
	}
	if !filter.CreatedFrom.IsZero() && usr.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && usr.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	if len(filter.Roles) > 0 {
		var hasRole bool
		for _, want := range filter.Roles {
			for _, role := range usr.Roles {
				if role == want {
					hasRole = true
				}
			}
		}
		if !hasRole {
			return false
		}
	}
	return true
}

func orderUsers(users []user.User, orderings []core.DBOrdering) {
	if len(orderings) == 0 {
		return
	}
	less := func(a, b user.User, field string) (bool, bool) { // (less, equal)
		switch field {
		case "name":
			return a.Name < b.Name, a.Name == b.Name
		case "username":
			return a.Username < b.Username, a.Username == b.Username
		case "email":
			return a.Email < b.Email, a.Email == b.Email
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		case "last_login":
			return a.LastLogin.Before(b.LastLogin), a.LastLogin.Equal(b.LastLogin)
		default: // created_at
			return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
	}
	sort.SliceStable(users, func(i, j int) bool {
		for _, ord := range orderings {
			lt, eq := less(users[i], users[j], ord.Field)
			if eq {
				continue
			}
			if ord.Ascending {
				return lt
			}
			return !lt
		}
		return false
	})
}
