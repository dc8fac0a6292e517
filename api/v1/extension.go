package v1

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/arcaneplugins/levelledmobs/internal/models"
	"github.com/arcaneplugins/levelledmobs/internal/services"
)

func (q *QueueStatus) FromModel(m models.QueueStatus) {
	q.Running = m.Running
	q.Size = m.Size
	q.InFlight = m.InFlight
	q.ActiveWorkers = m.ActiveWorkers
	q.Workers = make([]WorkerStatus, 0, len(m.Workers))
	for _, w := range m.Workers {
		q.Workers = append(q.Workers, WorkerStatus{Id: w.ID, State: w.State, Cancelled: w.Cancelled})
	}
}

// ToModel builds the queue item around a fresh entity holding no references.
func (i QueueItem) ToModel() (models.QueueItem, error) {
	id, err := uuid.Parse(i.Id)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("invalid entity id %q: %w", i.Id, err)
	}

	entity := models.NewLivingEntity(id, i.Type, models.Location{
		World: i.Location.World,
		X:     i.Location.X,
		Y:     i.Location.Y,
		Z:     i.Location.Z,
	})
	if i.Name != nil {
		entity.Name = *i.Name
	}
	if i.Player != nil {
		entity.Player = *i.Player
	}

	event := models.SpawnEvent{Reason: models.SpawnReasonDefault, IsLevelled: i.IsLevelled}
	if i.Reason != nil {
		event.Reason = models.SpawnReason(*i.Reason)
	}

	return models.NewQueueItem(entity, event), nil
}

func NewWorkerRestartFromModel(r models.WorkerRestart) WorkerRestart {
	return WorkerRestart{
		Id:          r.ID,
		WorkerId:    r.WorkerID,
		Reason:      string(r.Reason),
		Status:      r.Status(),
		QueueSize:   r.QueueSize,
		RestartedAt: r.At,
	}
}

func NewWorkerRestartListFromModel(res *services.RestartListResult) WorkerRestartList {
	list := WorkerRestartList{Restarts: make([]WorkerRestart, 0, len(res.Restarts)), Total: res.Total}
	for _, r := range res.Restarts {
		list.Restarts = append(list.Restarts, NewWorkerRestartFromModel(r))
	}
	return list
}

// ToServiceParams validates the query parameters of GET /queue/restarts.
func (p GetRestartsParams) ToServiceParams() (services.RestartListParams, error) {
	var params services.RestartListParams
	if p.Reason != nil {
		for _, r := range *p.Reason {
			reason, err := models.ParseRestartReason(r)
			if err != nil {
				return params, err
			}
			params.Reasons = append(params.Reasons, reason)
		}
	}
	if p.WorkerId != nil {
		params.WorkerID = *p.WorkerId
	}
	if p.Since != nil {
		params.Since = *p.Since
	}
	if p.Limit != nil {
		params.Limit = *p.Limit
	}
	if p.Offset != nil {
		params.Offset = *p.Offset
	}
	return params, nil
}

func (s *Settings) FromModel(m models.Settings) {
	s.IgnoreMobsWithNoPlayerContext = m.IgnoreMobsWithNoPlayerContext
	if !m.UpdatedAt.IsZero() {
		t := m.UpdatedAt
		s.UpdatedAt = &t
	}
}

func (d *DebugStatus) FromModel(m models.DebugStatus) {
	d.Enabled = m.Enabled
	d.BypassAllFilters = m.BypassAllFilters
	d.DisableAfter = m.DisableAfter.String()
	d.TimeRemaining = m.TimeRemaining.Round(time.Millisecond).String()

	d.Filters = DebugFilters{
		Types:       make([]string, 0, len(m.Filters.Types)),
		EntityTypes: append([]string{}, m.Filters.EntityTypes...),
		RuleNames:   append([]string{}, m.Filters.RuleNames...),
		ListenFor:   string(m.Filters.ListenFor),
		MinYLevel:   m.Filters.MinYLevel,
		MaxYLevel:   m.Filters.MaxYLevel,
	}
	for _, t := range m.Filters.Types {
		d.Filters.Types = append(d.Filters.Types, string(t))
	}
	sort.Strings(d.Filters.Types)
	sort.Strings(d.Filters.EntityTypes)
	sort.Strings(d.Filters.RuleNames)
}

func (f DebugFilters) ToModel() (models.DebugFilters, error) {
	listenFor, err := models.ParseListenFor(f.ListenFor)
	if err != nil {
		return models.DebugFilters{}, err
	}

	filters := models.DebugFilters{
		EntityTypes: f.EntityTypes,
		RuleNames:   f.RuleNames,
		ListenFor:   listenFor,
		MinYLevel:   f.MinYLevel,
		MaxYLevel:   f.MaxYLevel,
	}
	for _, s := range f.Types {
		t, err := models.ParseDebugType(s)
		if err != nil {
			return models.DebugFilters{}, err
		}
		filters.Types = append(filters.Types, t)
	}
	return filters, nil
}
