package models

const (
	DefaultSlotSizeMinutes = 15
	DefaultBufferMinutes   = 0

	MinSlotSizeMinutes = 5
	MaxSlotSizeMinutes = 60
	MinBufferMinutes   = 0
	MaxBufferMinutes   = 60
)

type SlotConfig struct {
	OwnerUserID     string `json:"owner_user_id,omitempty"`
	SlotSizeMinutes int    `json:"slot_size_minutes"`
	BufferMinutes   int    `json:"buffer_minutes"`
}

func DefaultSlotConfig(ownerUserID string) SlotConfig {
	return SlotConfig{
		OwnerUserID:     ownerUserID,
		SlotSizeMinutes: DefaultSlotSizeMinutes,
		BufferMinutes:   DefaultBufferMinutes,
	}
}
