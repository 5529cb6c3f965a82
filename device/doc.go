// Package device drives registered devices through the staged power
// transitions of a whole-machine sleep.
//
// Each device settles at one of three levels:
//
//	active     fully operational
//	suspended  main suspend callback has run
//	off        late suspend callback has run; device is quiesced
//
// The suspend side runs in reverse registration order so that devices
// registered after their dependencies (children after parents) are
// taken down first; the resume side mirrors it in registration order.
// A stage only touches devices settled at its source level, so partial
// progress from a failed attempt is picked up where it stopped rather
// than replayed.
//
//	SuspendStart  active -> suspended   stops at the first failure
//	SuspendEnd    suspended -> off      undoes its own progress on failure
//	ResumeStart   off -> suspended      continues past failures
//	ResumeEnd     anything -> active    continues past failures
//
// With Config.Async set, the callbacks within a stage run concurrently
// and the ordering guarantee is waived; async mode is only appropriate
// when the registered devices are independent of each other.
package device
