package service

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"minitwit/internal/model"
	"minitwit/internal/store"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// errInjector hands out one queued error per operation name.
type errInjector struct {
	nextErr map[string]error
}

func (e *errInjector) setErr(op string, err error) {
	if e.nextErr == nil {
		e.nextErr = make(map[string]error)
	}
	e.nextErr[op] = err
}

func (e *errInjector) takeErr(op string) error {
	if err, ok := e.nextErr[op]; ok {
		delete(e.nextErr, op)
		return err
	}
	return nil
}

type memoryAccounts struct {
	errInjector
	mu     sync.Mutex
	nextID int
	byID   map[int]model.Account
	calls  map[string]int
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byID: make(map[int]model.Account), calls: make(map[string]int)}
}

func (m *memoryAccounts) FindByUsername(_ context.Context, username string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["FindByUsername"]++
	if err := m.takeErr("FindByUsername"); err != nil {
		return nil, err
	}
	for _, acct := range m.byID {
		if acct.Username == username {
			return &acct, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memoryAccounts) FindByID(_ context.Context, id int) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["FindByID"]++
	if err := m.takeErr("FindByID"); err != nil {
		return nil, err
	}
	acct, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &acct, nil
}

func (m *memoryAccounts) Insert(_ context.Context, acct model.Account) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Insert"]++
	if err := m.takeErr("Insert"); err != nil {
		return nil, err
	}
	for _, existing := range m.byID {
		if existing.Username == acct.Username {
			return nil, store.ErrDuplicate
		}
	}
	m.nextID++
	acct.ID = m.nextID
	m.byID[acct.ID] = acct
	return &acct, nil
}

type memoryMessages struct {
	errInjector
	mu     sync.Mutex
	nextID int
	byID   map[int]model.Message
	calls  map[string]int
}

func newMemoryMessages() *memoryMessages {
	return &memoryMessages{byID: make(map[int]model.Message), calls: make(map[string]int)}
}

func (m *memoryMessages) Insert(_ context.Context, msg model.Message) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["Insert"]++
	if err := m.takeErr("Insert"); err != nil {
		return nil, err
	}
	m.nextID++
	msg.ID = m.nextID
	m.byID[msg.ID] = msg
	return &msg, nil
}

func (m *memoryMessages) FindByID(_ context.Context, id int) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["FindByID"]++
	if err := m.takeErr("FindByID"); err != nil {
		return nil, err
	}
	msg, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &msg, nil
}

func (m *memoryMessages) FindAll(_ context.Context) ([]model.Message, error) {
	return m.filter("FindAll", func(model.Message) bool { return true })
}

func (m *memoryMessages) FindByAuthor(_ context.Context, accountID int) ([]model.Message, error) {
	return m.filter("FindByAuthor", func(msg model.Message) bool { return msg.PostedBy == accountID })
}

func (m *memoryMessages) filter(op string, keep func(model.Message) bool) ([]model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[op]++
	if err := m.takeErr(op); err != nil {
		return nil, err
	}
	out := []model.Message{}
	for _, msg := range m.byID {
		if keep(msg) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryMessages) UpdateText(_ context.Context, id int, text string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["UpdateText"]++
	if err := m.takeErr("UpdateText"); err != nil {
		return nil, err
	}
	msg, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	msg.Text = text
	m.byID[id] = msg
	return &msg, nil
}

func (m *memoryMessages) DeleteByID(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["DeleteByID"]++
	if err := m.takeErr("DeleteByID"); err != nil {
		return err
	}
	delete(m.byID, id)
	return nil
}
