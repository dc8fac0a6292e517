package models

import (
	"fmt"
	"strings"
	"time"
)

type DebugType string

const (
	DebugTypeApplyLevelResult DebugType = "APPLY_LEVEL_RESULT"
	DebugTypePlayerContext    DebugType = "PLAYER_CONTEXT"
	DebugTypeEntitySpawn      DebugType = "ENTITY_SPAWN"
	DebugTypeCustomDrops      DebugType = "CUSTOM_DROPS"
	DebugTypeRuleEvaluation   DebugType = "RULE_EVALUATION"
	DebugTypeQueueManager     DebugType = "QUEUE_MANAGER"
)

var debugTypes = []DebugType{
	DebugTypeApplyLevelResult,
	DebugTypePlayerContext,
	DebugTypeEntitySpawn,
	DebugTypeCustomDrops,
	DebugTypeRuleEvaluation,
	DebugTypeQueueManager,
}

func DebugTypes() []DebugType {
	return append([]DebugType(nil), debugTypes...)
}

func ParseDebugType(s string) (DebugType, error) {
	want := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, t := range debugTypes {
		if string(t) == want {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid debug type: %s", s)
}

type ListenFor string

const (
	ListenForBoth    ListenFor = "both"
	ListenForSuccess ListenFor = "success"
	ListenForFailure ListenFor = "failure"
)

func ParseListenFor(s string) (ListenFor, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return ListenForBoth, nil
	case "success":
		return ListenForSuccess, nil
	case "failure":
		return ListenForFailure, nil
	default:
		return "", fmt.Errorf("invalid listen-for value: %s", s)
	}
}

type DebugFilters struct {
	Types       []DebugType
	EntityTypes []string
	RuleNames   []string
	ListenFor   ListenFor
	MinYLevel   *int
	MaxYLevel   *int
}

type DebugStatus struct {
	Enabled          bool
	BypassAllFilters bool
	DisableAfter     time.Duration
	TimeRemaining    time.Duration
	Filters          DebugFilters
}
