package mqtt

import "fmt"

// Topic prefixes for the Scene Cycler MQTT contract.
//
// The host application runs a thin shim that mirrors its scene catalog and
// hotkey subsystem onto these topics. Host-to-cycler topics live under
// scenecycler/host/…; cycler-to-host topics under scenecycler/command/…
// and scenecycler/hotkey/….
const (
	// TopicPrefix is the base for all Scene Cycler topics.
	TopicPrefix = "scenecycler"

	// TopicPrefixHost is the base for host-published topics.
	TopicPrefixHost = "scenecycler/host"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "scenecycler/system"
)

// Topics provides builders for Scene Cycler MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// HostScenes returns the retained topic carrying the host's present scene list.
//
// Example: scenecycler/host/scenes
func (Topics) HostScenes() string {
	return fmt.Sprintf("%s/scenes", TopicPrefixHost)
}

// HostEvent returns the topic for a host notification event.
//
// Example: scenecycler/host/event/scene_list_changed
func (Topics) HostEvent(event string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixHost, event)
}

// AllHostEvents returns a pattern matching all host notification events.
//
// Pattern: scenecycler/host/event/+
func (Topics) AllHostEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefixHost)
}

// HostHotkeyPressed returns the topic for press events of one hotkey action.
//
// Example: scenecycler/host/hotkey/scenecycler_show_a_next/pressed
func (Topics) HostHotkeyPressed(actionKey string) string {
	return fmt.Sprintf("%s/hotkey/%s/pressed", TopicPrefixHost, actionKey)
}

// HostBinding returns the retained topic carrying one action's binding blob.
//
// Example: scenecycler/host/binding/scenecycler_show_a_next
func (Topics) HostBinding(actionKey string) string {
	return fmt.Sprintf("%s/binding/%s", TopicPrefixHost, actionKey)
}

// AllHostBindings returns a pattern matching all binding blob topics.
//
// Pattern: scenecycler/host/binding/+
func (Topics) AllHostBindings() string {
	return fmt.Sprintf("%s/binding/+", TopicPrefixHost)
}

// CommandSelect returns the topic for scene selection commands to the host.
//
// Example: scenecycler/command/select
func (Topics) CommandSelect() string {
	return fmt.Sprintf("%s/command/select", TopicPrefix)
}

// CommandProfile returns the topic for profile management commands.
//
// Example: scenecycler/command/profile
func (Topics) CommandProfile() string {
	return fmt.Sprintf("%s/command/profile", TopicPrefix)
}

// HotkeyRegister returns the retained topic declaring one hotkey action.
// Publishing an empty payload clears the registration.
//
// Example: scenecycler/hotkey/register/scenecycler_show_a_next
func (Topics) HotkeyRegister(actionKey string) string {
	return fmt.Sprintf("%s/hotkey/register/%s", TopicPrefix, actionKey)
}

// HotkeyLoad returns the topic instructing the host to load a binding blob
// into one hotkey action.
//
// Example: scenecycler/hotkey/load/scenecycler_show_a_next
func (Topics) HotkeyLoad(actionKey string) string {
	return fmt.Sprintf("%s/hotkey/load/%s", TopicPrefix, actionKey)
}

// SystemStatus returns the system status topic.
//
// Example: scenecycler/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
