package site

import "time"

// Source identifies who produced a history entry.
type Source string

const (
	SourceUser Source = "user"
	SourceAI   Source = "ai"
)

// ChangeMeta describes one recorded edit.
type ChangeMeta struct {
	Timestamp       time.Time `json:"timestamp"`
	Source          Source    `json:"source"`
	ActionType      string    `json:"actionType"`
	Description     string    `json:"description"`
	ConversationID  string    `json:"conversationId,omitempty"`
	AffectedModules []string  `json:"affectedModules"`
	ChangesCount    int       `json:"changesCount"`
}

// Clone returns a copy of the metadata with its own module list.
func (m ChangeMeta) Clone() ChangeMeta {
	out := m
	out.AffectedModules = append([]string{}, m.AffectedModules...)
	return out
}

// Snapshot is a deep, point-in-time copy of the document and the selection.
type Snapshot struct {
	Site             *Site  `json:"site"`
	EntryPointPageID string `json:"entryPointPageId"`
	SelectedPageID   string `json:"selectedPageId"`
	SelectedModuleID string `json:"selectedModuleId"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Site = s.Site.Clone()
	return out
}

type HistoryEntry struct {
	State Snapshot   `json:"state"`
	Meta  ChangeMeta `json:"meta"`
}
