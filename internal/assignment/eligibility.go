package assignment

import (
	"sort"

	"maintenance-orchestrator/internal/model"
)

type techDay struct {
	technicianID int64
	workDate     string
}

// Eligible filters slots down to the AVAILABLE ones a request may take: the
// technician is active, has one of the required skills (any technician when
// required is empty) and holds no BUSY slot overlapping the window that day.
func Eligible(slots []model.TechnicianAvailability, required []string) []model.TechnicianAvailability {
	busy := make(map[techDay][]model.TechnicianAvailability)
	for _, s := range slots {
		if s.Status == model.SlotBusy {
			k := techDay{s.TechnicianID, s.WorkDate}
			busy[k] = append(busy[k], s)
		}
	}

	var out []model.TechnicianAvailability
	for _, s := range slots {
		if s.Status != model.SlotAvailable || s.Technician == nil || !s.Technician.Active {
			continue
		}
		if !hasAnySkill(s.Technician, required) {
			continue
		}
		if overlapsAny(s, busy[techDay{s.TechnicianID, s.WorkDate}]) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// NearestDate keeps only the candidates on the earliest work date.
func NearestDate(slots []model.TechnicianAvailability) []model.TechnicianAvailability {
	if len(slots) == 0 {
		return slots
	}
	earliest := slots[0].WorkDate
	for _, s := range slots[1:] {
		if s.WorkDate < earliest {
			earliest = s.WorkDate
		}
	}
	out := slots[:0:0]
	for _, s := range slots {
		if s.WorkDate == earliest {
			out = append(out, s)
		}
	}
	return out
}

// Rank orders candidates in place: fewest active assignments, then earliest
// start time, then technician id. Slot id breaks any remaining tie.
func Rank(slots []model.TechnicianAvailability, activeCounts map[int64]int) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if ca, cb := activeCounts[a.TechnicianID], activeCounts[b.TechnicianID]; ca != cb {
			return ca < cb
		}
		if a.StartMinute != b.StartMinute {
			return a.StartMinute < b.StartMinute
		}
		if a.TechnicianID != b.TechnicianID {
			return a.TechnicianID < b.TechnicianID
		}
		return a.ID < b.ID
	})
}

func hasAnySkill(t *model.Technician, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, have := range t.SkillCodes() {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

func overlapsAny(s model.TechnicianAvailability, others []model.TechnicianAvailability) bool {
	for _, o := range others {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}
