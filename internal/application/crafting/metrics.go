package crafting

import "github.com/andrescamacho/colonycraft-go/internal/domain/crafting"

// noopMetrics is used when no recorder is configured
type noopMetrics struct{}

func (noopMetrics) RecordCraftCheck(crafting.RecipeID, bool)                     {}
func (noopMetrics) RecordTaskQueued(crafting.RecipeID)                           {}
func (noopMetrics) RecordTaskCompleted(crafting.RecipeID)                        {}
func (noopMetrics) RecordTaskCancelled(crafting.RecipeID, bool)                  {}
func (noopMetrics) RecordConsumeFailure(crafting.RecipeID, string)               {}
func (noopMetrics) RecordCraftResumed(crafting.RecipeID, crafting.ResumeTrigger) {}
func (noopMetrics) SetQueueDepth(int, int)                                       {}
func (noopMetrics) SetPendingCrafts(int)                                         {}
