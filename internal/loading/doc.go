// Package loading drives the progress phrases shown while a chat request is
// outstanding.
//
// Arm resets the phase index to 0 and advances it once per interval
// (1800ms by default) until it reaches the last phrase of the locale's
// list, where it holds. Disarm stops the ticking immediately and leaves the
// index where it was. Only one ticker is ever active: arming an armed
// scheduler replaces the previous ticker.
//
// Time comes from a Clock so tests can use ManualClock and advance virtual
// time deterministically:
//
//	clock := loading.NewManualClock(time.Now())
//	s := loading.NewScheduler(clock, loading.DefaultInterval, i18n.LoadingPhrases, nil)
//	s.Arm(i18n.English)
//	clock.Advance(3 * loading.DefaultInterval)
//	s.Index() // 3
package loading
