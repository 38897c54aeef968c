package device

import "time"

const (
	TypeRaspberryPi  = "RASPBERRY_PI"
	TypeESP32        = "ESP32"
	TypeZKController = "ZK_CONTROLLER"
)

var SupportedTypes = []string{TypeRaspberryPi, TypeESP32, TypeZKController}

const DefaultLocation = "Main Entrance"

// Door event types.
const (
	EventAutoOpen      = "AUTO_OPEN"
	EventEmergencyOpen = "EMERGENCY_OPEN"

	// EventCloudSync marks punches imported from the ZKTeco cloud; no door was actuated.
	EventCloudSync = "CLOUD_SYNC"
)

type HardwareDevice struct {
	ID         int64
	CompanyID  int64
	DeviceUID  string
	DeviceType string
	Location   string
	SecretKey  string
	Active     bool
	CreatedAt  time.Time
}

func IsSupportedType(deviceType string) bool {
	for _, t := range SupportedTypes {
		if t == deviceType {
			return true
		}
	}
	return false
}

// DoorEvent is the append-only audit of door actuations.
type DoorEvent struct {
	ID            int64
	CompanyID     int64
	EmployeeID    *int64
	EventType     string
	TriggerReason string
	DeviceID      string
	CreatedAt     time.Time
}
