package metrics

// Observer receives domain-level measurements from the services. The
// prometheus implementation is the only production one; tests inject Nop.
type Observer interface {
	FlagCacheHit()
	FlagCacheMiss()
	ZoneChecked(status string)
}

type nopObserver struct{}

func (nopObserver) FlagCacheHit()      {}
func (nopObserver) FlagCacheMiss()     {}
func (nopObserver) ZoneChecked(string) {}

// Nop returns an Observer that records nothing.
func Nop() Observer {
	return nopObserver{}
}
