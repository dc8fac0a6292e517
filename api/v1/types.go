package v1

import "time"

type WorkerStatus struct {
	Id        int    `json:"id"`
	State     string `json:"state"`
	Cancelled bool   `json:"cancelled"`
}

type QueueStatus struct {
	Running       bool           `json:"running"`
	Size          int            `json:"size"`
	InFlight      int            `json:"inFlight"`
	ActiveWorkers int            `json:"activeWorkers"`
	Workers       []WorkerStatus `json:"workers"`
}

type Location struct {
	World string  `json:"world" binding:"required"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

type QueueItem struct {
	Id         string   `json:"id" binding:"required,uuid"`
	Type       string   `json:"type" binding:"required"`
	Name       *string  `json:"name,omitempty"`
	Player     *string  `json:"player,omitempty"`
	Location   Location `json:"location" binding:"required"`
	Reason     *string  `json:"reason,omitempty"`
	IsLevelled bool     `json:"isLevelled"`
}

type EnqueueRequest struct {
	Items []QueueItem `json:"items" binding:"required,min=1,dive"`
}

type EnqueueResponse struct {
	Admitted   int `json:"admitted"`
	Duplicates int `json:"duplicates"`
}

type ClearResponse struct {
	Cleared int `json:"cleared"`
}

type HealthCheckResponse struct {
	Restarted int `json:"restarted"`
}

type WorkerRestart struct {
	Id          int64     `json:"id"`
	WorkerId    int       `json:"workerId"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	QueueSize   int       `json:"queueSize"`
	RestartedAt time.Time `json:"restartedAt"`
}

type WorkerRestartList struct {
	Restarts []WorkerRestart `json:"restarts"`
	Total    int             `json:"total"`
}

// GetRestartsParams defines parameters for GetRestarts.
type GetRestartsParams struct {
	Reason   *[]string  `form:"reason,omitempty" json:"reason,omitempty"`
	WorkerId *int       `form:"workerId,omitempty" json:"workerId,omitempty"`
	Since    *time.Time `form:"since,omitempty" json:"since,omitempty"`
	Limit    *uint64    `form:"limit,omitempty" json:"limit,omitempty"`
	Offset   *uint64    `form:"offset,omitempty" json:"offset,omitempty"`
}

type Settings struct {
	IgnoreMobsWithNoPlayerContext bool       `json:"ignoreMobsWithNoPlayerContext"`
	UpdatedAt                     *time.Time `json:"updatedAt,omitempty"`
}

type UpdateSettingsRequest struct {
	IgnoreMobsWithNoPlayerContext *bool `json:"ignoreMobsWithNoPlayerContext" binding:"required"`
}

type DebugFilters struct {
	Types       []string `json:"types"`
	EntityTypes []string `json:"entityTypes"`
	RuleNames   []string `json:"ruleNames"`
	ListenFor   string   `json:"listenFor"`
	MinYLevel   *int     `json:"minYLevel,omitempty"`
	MaxYLevel   *int     `json:"maxYLevel,omitempty"`
}

type DebugStatus struct {
	Enabled          bool         `json:"enabled"`
	BypassAllFilters bool         `json:"bypassAllFilters"`
	DisableAfter     string       `json:"disableAfter"`
	TimeRemaining    string       `json:"timeRemaining"`
	Filters          DebugFilters `json:"filters"`
}

// UpdateDebugRequest only changes the fields that are set.
type UpdateDebugRequest struct {
	Enabled          *bool         `json:"enabled,omitempty"`
	BypassAllFilters bool          `json:"bypassAllFilters"`
	UseTimer         bool          `json:"useTimer"`
	DisableAfter     *string       `json:"disableAfter,omitempty"`
	Filters          *DebugFilters `json:"filters,omitempty"`
	ResetFilters     bool          `json:"resetFilters"`
}

type ServerLoadRequest struct {
	Type string `json:"type" binding:"required,oneof=startup reload"`
}

type ServerLoadResponse struct {
	FinishedLoading       bool `json:"finishedLoading"`
	PendingItemsScheduled bool `json:"pendingItemsScheduled"`
}
