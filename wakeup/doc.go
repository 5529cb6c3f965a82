// Package wakeup tracks wakeup events so that a suspend transition can
// detect activity that should abort or immediately end it.
//
// Event producers register a Source per device or subsystem and either
// report instantaneous events with RecordEvent or bracket longer wake
// holds with Activate and Deactivate. The registry keeps a global count
// of completed events plus the number of holds in progress.
//
// The suspend side arms the registry against a count snapshot taken
// while the system was still idle. Once armed, Pending reports true as
// soon as the count moves or a hold is active, and stays false
// otherwise, so a race between "decide to sleep" and "device needs
// attention" always resolves in favor of staying awake.
package wakeup
