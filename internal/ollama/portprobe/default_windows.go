//go:build windows

package portprobe

// NewDefault returns the prober for this platform.
func NewDefault(opts ...Option) Prober {
	return NewNetstatProbe(opts...)
}
