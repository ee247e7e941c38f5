package synth

// Sine approximation: odd polynomial y = c*x^5 + b*x^3 + (1-b-c)*x
// least-squares fitted to sin(x*pi/2) on [0,1] over 21 evenly spaced points,
// constants scaled by 32767 and truncated:
//
//	sin(x*pi/2) ~= 0.0721435357258*x^5 - 0.642443736562*x^3 + 1.57030020084*x
//
// Maximum magnitude error is 7/32767, about 0.02%.
const (
	sineC = 2363   // 0.0721435357258 * 32767
	sineB = -21050 // -0.642443736562 * 32767
	sineA = 51454  // 1.57030020084 * 32767
)

const noiseSeed = 0xf01ba80

// toneGenerator maps a wave selector and a phase position in the 10-bit
// cycle domain [0, 1023] to a signed amplitude in [-32767, 32767]. All
// generators are pure except noise, which advances a xorshift32 register
// independent of phase.
type toneGenerator struct {
	noise uint32
}

func newToneGenerator() toneGenerator {
	return toneGenerator{noise: noiseSeed}
}

func (g *toneGenerator) sample(w Wave, pos uint32) int32 {
	switch w {
	case WaveTriangle:
		if pos < 512 {
			return int32(pos<<7) - 0x7fff
		}
		return int32((1023-pos)<<7) - 0x7fff
	case WaveSawtooth:
		return int32(pos<<6) - 0x7fff
	case WaveSine:
		return sineTone(pos)
	case WaveNoise:
		// https://en.wikipedia.org/wiki/Xorshift
		g.noise ^= g.noise << 13
		g.noise ^= g.noise >> 17
		g.noise ^= g.noise << 5
		v := int32(g.noise&0xffff) - 0x7fff
		if v > 0x7fff {
			v = 0x7fff
		}
		return v
	default:
		if w >= WaveSquare10 && w <= WaveSquare50 {
			if pos < 102*uint32(w-WaveSquare10+1) {
				return -0x7fff
			}
			return 0x7fff
		}
		return 0
	}
}

// sineTone evaluates the quarter-cycle polynomial via Horner's rule:
// y = ((c*x^2 + b)*x^2 + a)*x. The position p is x*256, so each multiply by
// p is followed by an 8-bit shift to keep the fixed point in place.
func sineTone(pos uint32) int32 {
	p := int32(pos)
	if p >= 512 {
		p -= 512
	}
	if p > 256 {
		p = 512 - p
	}

	p2 := p * p
	u := (sineC*p2)>>16 + sineB
	v := (u*p2)>>16 + sineA
	w := v * p >> 8

	if pos >= 512 {
		return -w
	}
	return w
}
