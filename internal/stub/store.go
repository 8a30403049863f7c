package stub

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/taskboard/internal/model"
)

type account struct {
	user model.User
	hash []byte
}

// store holds all stub state behind one lock
type store struct {
	mu            sync.RWMutex
	accounts      map[string]*account // by lowercased email
	tokens        map[string]string   // token -> user id
	tasks         map[string][]model.Task
	notifications map[string]*model.Notification
}

func newStore() *store {
	return &store{
		accounts:      make(map[string]*account),
		tokens:        make(map[string]string),
		tasks:         make(map[string][]model.Task),
		notifications: make(map[string]*model.Notification),
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (st *store) account(email string) (*account, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	a, ok := st.accounts[strings.ToLower(email)]
	return a, ok
}

// addAccount returns false when the email is taken
func (st *store) addAccount(u model.User, hash []byte) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, taken := st.accounts[key]; taken {
		return false
	}
	st.accounts[key] = &account{user: u, hash: hash}
	return true
}

func (st *store) issueToken(userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	st.mu.Lock()
	st.tokens[token] = userID
	st.mu.Unlock()
	return token, nil
}

func (st *store) userForToken(token string) (string, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	id, ok := st.tokens[token]
	return id, ok
}

func (st *store) addTask(t model.Task) model.Task {
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.Status = model.TaskPending
	t.CreatedAt = now
	t.UpdatedAt = now

	st.mu.Lock()
	defer st.mu.Unlock()
	st.tasks[t.UserID] = append(st.tasks[t.UserID], t)
	return t
}

// userTasks returns a copy, newest first
func (st *store) userTasks(userID string) []model.Task {
	st.mu.RLock()
	defer st.mu.RUnlock()
	list := st.tasks[userID]
	out := make([]model.Task, len(list))
	for i := range list {
		out[len(list)-1-i] = list[i]
	}
	return out
}

func (st *store) addNotification(n model.Notification) model.Notification {
	now := time.Now().UTC()
	n.ID = uuid.NewString()
	n.Status = model.NotificationPending
	n.CreatedAt = now
	n.UpdatedAt = now

	st.mu.Lock()
	defer st.mu.Unlock()
	stored := n
	st.notifications[n.ID] = &stored
	return n
}

func (st *store) notification(id string) (model.Notification, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	n, ok := st.notifications[id]
	if !ok {
		return model.Notification{}, false
	}
	return *n, true
}

// userNotifications returns up to limit notifications after offset, newest first
func (st *store) userNotifications(userID string, limit, offset int) []model.Notification {
	st.mu.RLock()
	var out []model.Notification
	for _, n := range st.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []model.Notification{}
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

func (st *store) markRead(id string) (model.Notification, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	n, ok := st.notifications[id]
	if !ok {
		return model.Notification{}, false
	}
	now := time.Now().UTC()
	n.Status = model.NotificationRead
	n.ReadAt = &now
	n.UpdatedAt = now
	return *n, true
}

func (st *store) deleteNotification(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.notifications[id]; !ok {
		return false
	}
	delete(st.notifications, id)
	return true
}
