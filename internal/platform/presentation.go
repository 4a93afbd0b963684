package platform

// meetingProcesses are the process names whose presence indicates an active
// meeting, screen share or recording.
var meetingProcesses = []string{
	"zoom",
	"CptHost",
	"teams",
	"ms-teams",
	"obs",
	"webex",
	"gotomeeting",
}

// PresentationSensor reports an active presentation, screen share or
// fullscreen condition for do-not-disturb decisions.
type PresentationSensor struct{}

// NewPresentationSensor returns the presentation/DND sensor.
func NewPresentationSensor() *PresentationSensor {
	return &PresentationSensor{}
}

// IsDoNotDisturb is true while a known meeting process runs or the focused
// window is fullscreen.
func (sensor *PresentationSensor) IsDoNotDisturb() bool {
	return meetingProcessRunning() || fullscreenActive()
}
