package model

// Settings is the single row of lending ceilings. Durations are in days.
type Settings struct {
	MaxBorrowLimit        int  `json:"max_borrow_limit"`
	MaxBorrowDuration     int  `json:"max_borrow_duration"`
	MaxExtensionLimit     int  `json:"max_extension_limit"`
	MaxBookingDuration    int  `json:"max_booking_duration"`
	MaxBookingLimit       int  `json:"max_booking_limit"`
	RequireBorrowApproval bool `json:"require_borrow_approval"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxBorrowLimit:     3,
		MaxBorrowDuration:  30,
		MaxExtensionLimit:  2,
		MaxBookingDuration: 7,
		MaxBookingLimit:    3,
	}
}

// SettingsPatch carries a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	MaxBorrowLimit        *int  `json:"max_borrow_limit" validate:"omitempty,gte=1"`
	MaxBorrowDuration     *int  `json:"max_borrow_duration" validate:"omitempty,gte=1"`
	MaxExtensionLimit     *int  `json:"max_extension_limit" validate:"omitempty,gte=0"`
	MaxBookingDuration    *int  `json:"max_booking_duration" validate:"omitempty,gte=1"`
	MaxBookingLimit       *int  `json:"max_booking_limit" validate:"omitempty,gte=1"`
	RequireBorrowApproval *bool `json:"require_borrow_approval"`
}

func (s Settings) Apply(p SettingsPatch) Settings {
	if p.MaxBorrowLimit != nil {
		s.MaxBorrowLimit = *p.MaxBorrowLimit
	}
	if p.MaxBorrowDuration != nil {
		s.MaxBorrowDuration = *p.MaxBorrowDuration
	}
	if p.MaxExtensionLimit != nil {
		s.MaxExtensionLimit = *p.MaxExtensionLimit
	}
	if p.MaxBookingDuration != nil {
		s.MaxBookingDuration = *p.MaxBookingDuration
	}
	if p.MaxBookingLimit != nil {
		s.MaxBookingLimit = *p.MaxBookingLimit
	}
	if p.RequireBorrowApproval != nil {
		s.RequireBorrowApproval = *p.RequireBorrowApproval
	}
	return s
}
