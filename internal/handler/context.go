package handler

type ContextKey string

var (
	PlanCtxKey  ContextKey = "plan"
	SubCtxKey   ContextKey = "sub"
	MyInfoCtx   ContextKey = "myInfo"
	ScheduleCtx ContextKey = "schedule"
	PriorityCtx ContextKey = "priority"
)
