package models

type ManualBlock struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type Barber struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Specialty      string  `json:"specialty,omitempty"`
	Photo          string  `json:"photo,omitempty"`
	BaseRating     float64 `json:"base_rating,omitempty"`
	CommissionRate float64 `json:"commission_rate"`

	// bcrypt hash; never rendered by the public API
	PinHash string `json:"pin_hash,omitempty"`

	OffDays      []string      `json:"off_days"`
	ManualBlocks []ManualBlock `json:"manual_blocks"`
}

func (b *Barber) IsOffDay(date string) bool {
	for _, d := range b.OffDays {
		if d == date {
			return true
		}
	}
	return false
}

func (b *Barber) IsBlocked(date, hm string) bool {
	for _, blk := range b.ManualBlocks {
		if blk.Date == date && blk.Time == hm {
			return true
		}
	}
	return false
}

func (b Barber) Clone() Barber {
	out := b
	out.OffDays = append([]string(nil), b.OffDays...)
	out.ManualBlocks = append([]ManualBlock(nil), b.ManualBlocks...)
	return out
}

// Public strips credentials.
func (b Barber) Public() Barber {
	out := b.Clone()
	out.PinHash = ""
	return out
}

// BarberPatch carries the fields a barber or admin may change. Nil means untouched.
type BarberPatch struct {
	Name           *string        `json:"name"`
	Specialty      *string        `json:"specialty"`
	Photo          *string        `json:"photo"`
	CommissionRate *float64       `json:"commission_rate"`
	OffDays        *[]string      `json:"off_days"`
	ManualBlocks   *[]ManualBlock `json:"manual_blocks"`
}

func (p BarberPatch) Apply(b *Barber) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Specialty != nil {
		b.Specialty = *p.Specialty
	}
	if p.Photo != nil {
		b.Photo = *p.Photo
	}
	if p.CommissionRate != nil {
		b.CommissionRate = *p.CommissionRate
	}
	if p.OffDays != nil {
		b.OffDays = append([]string{}, (*p.OffDays)...)
	}
	if p.ManualBlocks != nil {
		b.ManualBlocks = append([]ManualBlock{}, (*p.ManualBlocks)...)
	}
}
