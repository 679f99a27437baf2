package config

type WorkerKeyStruct struct {
	PersistPlanSnapshotsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistPlanSnapshotsQueue: "persist_plan_snapshots_queue",
}
