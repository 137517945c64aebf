package model

// All returns every entity managed by the ledger, in migration order.
func All() []any {
	return []any{
		&Skill{},
		&Device{},
		&Issue{},
		&Employee{},
		&Customer{},
		&Technician{},
		&ShiftTemplate{},
		&TechnicianAvailability{},
		&MaintenanceSchedule{},
		&MaintenanceRequest{},
		&Assignment{},
		&Survey{},
		&MaintenancePlan{},
		&ExecutionTask{},
		&RejectionRecord{},
		&PushSubscription{},
	}
}
