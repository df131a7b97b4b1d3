package models

const DefaultMonthlyGoal = 20000

// Snapshot is the whole persisted state. Stores substitute snapshots, they never
// mutate one that has been published.
type Snapshot struct {
	Services     []Service     `json:"services"`
	Barbers      []Barber      `json:"barbers"`
	Clients      []Client      `json:"clients"`
	Appointments []Appointment `json:"appointments"`
	MonthlyGoal  float64       `json:"monthly_goal"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Services:     []Service{},
		Barbers:      []Barber{},
		Clients:      []Client{},
		Appointments: []Appointment{},
		MonthlyGoal:  DefaultMonthlyGoal,
	}
}

func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Services:     append([]Service{}, s.Services...),
		Barbers:      make([]Barber, 0, len(s.Barbers)),
		Clients:      append([]Client{}, s.Clients...),
		Appointments: make([]Appointment, 0, len(s.Appointments)),
		MonthlyGoal:  s.MonthlyGoal,
	}
	for _, b := range s.Barbers {
		out.Barbers = append(out.Barbers, b.Clone())
	}
	for _, a := range s.Appointments {
		out.Appointments = append(out.Appointments, a.Clone())
	}
	return out
}

func (s *Snapshot) Appointment(id string) *Appointment {
	for i := range s.Appointments {
		if s.Appointments[i].ID == id {
			return &s.Appointments[i]
		}
	}
	return nil
}

func (s *Snapshot) Barber(id string) *Barber {
	for i := range s.Barbers {
		if s.Barbers[i].ID == id {
			return &s.Barbers[i]
		}
	}
	return nil
}

func (s *Snapshot) Service(id string) *Service {
	for i := range s.Services {
		if s.Services[i].ID == id {
			return &s.Services[i]
		}
	}
	return nil
}

func (s *Snapshot) ClientByPhone(phone string) *Client {
	for i := range s.Clients {
		if s.Clients[i].Phone == phone {
			return &s.Clients[i]
		}
	}
	return nil
}

// Normalize fills collections a hand-edited or bulk-synced document may omit.
func (s *Snapshot) Normalize() {
	if s.Services == nil {
		s.Services = []Service{}
	}
	if s.Barbers == nil {
		s.Barbers = []Barber{}
	}
	if s.Clients == nil {
		s.Clients = []Client{}
	}
	if s.Appointments == nil {
		s.Appointments = []Appointment{}
	}
	if s.MonthlyGoal <= 0 {
		s.MonthlyGoal = DefaultMonthlyGoal
	}
	for i := range s.Barbers {
		if s.Barbers[i].OffDays == nil {
			s.Barbers[i].OffDays = []string{}
		}
		if s.Barbers[i].ManualBlocks == nil {
			s.Barbers[i].ManualBlocks = []ManualBlock{}
		}
	}
	for i := range s.Appointments {
		if s.Appointments[i].AutomationMeta.Events == nil {
			s.Appointments[i].AutomationMeta.Events = []AutomationEvent{}
		}
	}
}

// SnapshotPatch replaces whole collections; nil means keep the stored one.
type SnapshotPatch struct {
	Services     *[]Service     `json:"services"`
	Barbers      *[]Barber      `json:"barbers"`
	Clients      *[]Client      `json:"clients"`
	Appointments *[]Appointment `json:"appointments"`
	MonthlyGoal  *float64       `json:"monthly_goal"`
}

func (p SnapshotPatch) Empty() bool {
	return p.Services == nil && p.Barbers == nil && p.Clients == nil &&
		p.Appointments == nil && p.MonthlyGoal == nil
}

func (p SnapshotPatch) Apply(s *Snapshot) {
	if p.Services != nil {
		s.Services = append([]Service{}, (*p.Services)...)
	}
	if p.Barbers != nil {
		old := make(map[string]string, len(s.Barbers))
		for _, b := range s.Barbers {
			old[b.ID] = b.PinHash
		}
		s.Barbers = make([]Barber, 0, len(*p.Barbers))
		for _, b := range *p.Barbers {
			b = b.Clone()
			if b.PinHash == "" {
				b.PinHash = old[b.ID]
			}
			s.Barbers = append(s.Barbers, b)
		}
	}
	if p.Clients != nil {
		s.Clients = append([]Client{}, (*p.Clients)...)
	}
	if p.Appointments != nil {
		s.Appointments = make([]Appointment, 0, len(*p.Appointments))
		for _, a := range *p.Appointments {
			s.Appointments = append(s.Appointments, a.Clone())
		}
	}
	if p.MonthlyGoal != nil {
		s.MonthlyGoal = *p.MonthlyGoal
	}
}
