package state

import (
	"slices"
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/conditionals"
)

// QuestStatus is the lifecycle state of a quest.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
)

// Quest is a tracked objective, identified by ID.
type Quest struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Summary string      `json:"summary,omitempty"`
	Status  QuestStatus `json:"status"`
}

// QuestLog holds active and completed quests. An ID appears in at most one list.
type QuestLog struct {
	Active    []Quest `json:"active"`
	Completed []Quest `json:"completed"`
}

// Find returns the quest with id and its status.
func (l QuestLog) Find(id string) (Quest, bool) {
	if i := indexQuest(l.Active, id); i >= 0 {
		return l.Active[i], true
	}
	if i := indexQuest(l.Completed, id); i >= 0 {
		return l.Completed[i], true
	}
	return Quest{}, false
}

func indexQuest(quests []Quest, id string) int {
	return slices.IndexFunc(quests, func(q Quest) bool { return q.ID == id })
}

// AddQuest starts a quest. Completed quests never reopen, and an active quest
// only changes when a new non-empty summary differs from the current one.
// It returns the history entry to record, or nil when nothing changed.
func (gs *GameState) AddQuest(d conditionals.Descriptor) *HistoryEntry {
	id := CanonicalID(d)
	if id == "" {
		return nil
	}
	if indexQuest(gs.Quests.Completed, id) >= 0 {
		return nil
	}

	summary := strings.TrimSpace(d.Summary)
	if i := indexQuest(gs.Quests.Active, id); i >= 0 {
		q := &gs.Quests.Active[i]
		if summary == "" || summary == q.Summary {
			return nil
		}
		q.Summary = summary
		entry := NewQuestEntry(id, QuestActive, questText("Quest updated", *q))
		return &entry
	}

	q := Quest{ID: id, Title: titleOrID(d, id), Summary: summary, Status: QuestActive}
	gs.Quests.Active = append(gs.Quests.Active, q)
	entry := NewQuestEntry(id, QuestActive, questText("Quest started", q))
	return &entry
}

// CompleteQuest moves a quest to completed, inserting it directly if unknown.
// A bare title descriptor only identifies the quest; titles are overwritten
// only by descriptors with an explicit ID.
// It returns the history entry to record, or nil when nothing changed.
func (gs *GameState) CompleteQuest(d conditionals.Descriptor) *HistoryEntry {
	id := CanonicalID(d)
	if id == "" {
		return nil
	}
	title := ""
	if strings.TrimSpace(d.ID) != "" {
		title = strings.TrimSpace(d.Title)
	}
	summary := strings.TrimSpace(d.Summary)

	if i := indexQuest(gs.Quests.Active, id); i >= 0 {
		q := gs.Quests.Active[i]
		gs.Quests.Active = slices.Delete(gs.Quests.Active, i, i+1)
		if title != "" {
			q.Title = title
		}
		if summary != "" {
			q.Summary = summary
		}
		q.Status = QuestCompleted
		gs.Quests.Completed = append(gs.Quests.Completed, q)
		entry := NewQuestEntry(id, QuestCompleted, questText("Quest completed", q))
		return &entry
	}

	if i := indexQuest(gs.Quests.Completed, id); i >= 0 {
		q := &gs.Quests.Completed[i]
		changed := false
		if title != "" && title != q.Title {
			q.Title = title
			changed = true
		}
		if summary != "" && summary != q.Summary {
			q.Summary = summary
			changed = true
		}
		if !changed {
			return nil
		}
		entry := NewQuestEntry(id, QuestCompleted, questText("Quest revised", *q))
		return &entry
	}

	q := Quest{ID: id, Title: titleOrID(d, id), Summary: summary, Status: QuestCompleted}
	gs.Quests.Completed = append(gs.Quests.Completed, q)
	entry := NewQuestEntry(id, QuestCompleted, questText("Quest completed", q))
	return &entry
}

func questText(prefix string, q Quest) string {
	if q.Summary == "" {
		return prefix + ": " + q.Title
	}
	return prefix + ": " + q.Title + " - " + q.Summary
}

// CanonicalID derives a ledger ID: the explicit ID if set, otherwise the
// snake_cased title. Returns "" when neither is present.
func CanonicalID(d conditionals.Descriptor) string {
	if id := strings.TrimSpace(d.ID); id != "" {
		return id
	}
	return toSnakeCase(strings.TrimSpace(d.Title))
}

func titleOrID(d conditionals.Descriptor, id string) string {
	if title := strings.TrimSpace(d.Title); title != "" {
		return title
	}
	return id
}

// toSnakeCase lower-cases s and collapses spaces, dashes, dots and
// underscores into single underscores.
func toSnakeCase(s string) string {
	var out strings.Builder
	prevUnderscore := false
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		if r == ' ' || r == '-' || r == '.' || r == '_' {
			if !prevUnderscore && i > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}
			continue
		}
		out.WriteRune(r)
		prevUnderscore = false
	}
	return strings.TrimSuffix(out.String(), "_")
}
