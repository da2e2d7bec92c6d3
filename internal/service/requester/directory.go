package requester

import (
	"context"
	"sync"

	"github.com/Chinenye997/IMS/internal/domain"
)

// StaticDirectory — справочник инициаторов, заполняемый при старте.
// Идентичность принадлежит внешней системе; движку достаточно
// отображаемых имён для витрины истории.
type StaticDirectory struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewStaticDirectory возвращает справочник с заданными именами.
func NewStaticDirectory(names map[string]string) *StaticDirectory {
	copied := make(map[string]string, len(names))
	for id, name := range names {
		copied[id] = name
	}
	return &StaticDirectory{names: copied}
}

// Register добавляет или обновляет имя инициатора.
func (d *StaticDirectory) Register(requesterID, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names[requesterID] = name
}

// DisplayName возвращает имя инициатора. AnonymousRequester резолвится
// сам в себя; неизвестный идентификатор — пустая строка, витрина
// подставит "Unknown".
func (d *StaticDirectory) DisplayName(_ context.Context, requesterID string) (string, error) {
	if requesterID == domain.AnonymousRequester {
		return domain.AnonymousRequester, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.names[requesterID], nil
}

var _ domain.RequesterDirectory = (*StaticDirectory)(nil)
