package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PlanStateKey returns the cache key for a plan's persisted state
func (r *CacheKeyStruct) PlanStateKey(planID string) string {
	return fmt.Sprintf("pathway:plan:%s:state", planID)
}

// PlanStatePattern matches every persisted plan state
func (r *CacheKeyStruct) PlanStatePattern() string {
	return "pathway:plan:*:state"
}

var CacheKey = NewCacheKeyStruct()
