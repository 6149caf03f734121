package config

// Defaults contains the [defaults] section, which provides fallback values for command-line flags.
//
// Empty fields mean the key is absent.
type Defaults struct {
	ExtractTo    string
	Collision    string
	SafetyMargin string
	MvOK         string
	MvErr        string
}

// ForDefaults returns the [defaults] section.
func (l *Loader) ForDefaults() (c Defaults) {
	if l.cfg == nil {
		return c
	}

	sec, err := l.cfg.GetSection("defaults")
	if err != nil {
		return c
	}

	c.ExtractTo = sec.Key("extract-to").String()
	c.Collision = sec.Key("collision").String()
	c.SafetyMargin = sec.Key("safety-margin").String()
	c.MvOK = sec.Key("mv-ok").String()
	c.MvErr = sec.Key("mv-er").String()

	return
}

// ForDefaults calls Loader.ForDefaults on the DefaultLoader instance.
func ForDefaults() (c Defaults) {
	return DefaultLoader.ForDefaults()
}
