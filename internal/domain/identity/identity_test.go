package identity_test

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/okian/benchmatrix/internal/domain/identity"
	. "github.com/smartystreets/goconvey/convey"
)

var validID = regexp.MustCompile(`^[a-z0-9_]+$`)

func TestCanonicalID(t *testing.T) {
	Convey("Given raw model-version strings", t, func() {
		Convey("When the version has a path, mixed case, dots and a date", func() {
			id := identity.CanonicalID("OpenAI/GPT-5.2-preview-2025-03-01")

			Convey("Then the ID should only hold lowercase letters, digits and underscores", func() {
				So(id, ShouldNotBeBlank)
				So(validID.MatchString(id), ShouldBeTrue)
				So(id, ShouldNotContainSubstring, "/")
				So(id, ShouldNotContainSubstring, ".")
				So(id, ShouldEqual, strings.ToLower(id))
				So(id, ShouldStartWith, "openai_")
			})
		})

		Convey("When digits and letters touch", func() {
			Convey("Then a separator should be inserted between them", func() {
				So(identity.CanonicalID("gemini3flashpreview"), ShouldEqual, "gemini_3_flashpreview")
				So(identity.CanonicalID("Claude 3.5 Sonnet"), ShouldEqual, "claude_3_5_sonnet")
				So(identity.CanonicalID("o3-mini"), ShouldEqual, "o_3mini")
			})
		})

		Convey("When separators repeat or surround the value", func() {
			Convey("Then they should collapse and be trimmed", func() {
				So(identity.CanonicalID("  __a//b::c,,d  "), ShouldEqual, "a_b_c_d")
				So(identity.CanonicalID("x \t  y"), ShouldEqual, "x_y")
			})
		})

		Convey("When the same version string is seen twice", func() {
			Convey("Then both should map to the same ID", func() {
				v := "anthropic/claude-opus-4-1-20250805"
				So(identity.CanonicalID(v), ShouldEqual, identity.CanonicalID(v))
			})
		})

		Convey("When the version is missing", func() {
			Convey("Then the unknown sentinel should be returned", func() {
				So(identity.CanonicalID(""), ShouldEqual, identity.UnknownID)
				So(identity.IsSentinel(identity.UnknownID), ShouldBeTrue)
			})
		})

		Convey("When the version strips down to nothing", func() {
			a := identity.CanonicalID("!!!")
			b := identity.CanonicalID("---")

			Convey("Then each should get a distinct empty sentinel", func() {
				So(a, ShouldStartWith, identity.EmptyIDPrefix)
				So(b, ShouldStartWith, identity.EmptyIDPrefix)
				So(a, ShouldNotEqual, b)
				So(a, ShouldNotEqual, identity.UnknownID)
				So(validID.MatchString(a), ShouldBeTrue)
				So(identity.IsSentinel(a), ShouldBeTrue)
			})
		})

		Convey("When a regular ID is checked", func() {
			Convey("Then it should not be a sentinel", func() {
				So(identity.IsSentinel("gpt_4_o"), ShouldBeFalse)
			})
		})
	})
}

func TestCanonicalIDProperties(t *testing.T) {
	Convey("Given random strings of letters, digits and separators", t, func() {
		const alphabet = "abcXYZ0129/\\:., _"
		rng := rand.New(rand.NewSource(7))
		inputs := make([]string, 0, 500)
		for len(inputs) < cap(inputs) {
			n := 1 + rng.Intn(24)
			var b strings.Builder
			for i := 0; i < n; i++ {
				b.WriteByte(alphabet[rng.Intn(len(alphabet))])
			}
			s := b.String()
			if strings.IndexAny(strings.ToLower(s), "abcxyz0129") < 0 {
				continue
			}
			inputs = append(inputs, s)
		}

		Convey("Then normalizing twice should equal normalizing once", func() {
			for _, in := range inputs {
				once := identity.CanonicalID(in)
				So(identity.CanonicalID(once), ShouldEqual, once)
			}
		})

		Convey("And every ID should be non-empty and well formed", func() {
			for _, in := range inputs {
				id := identity.CanonicalID(in)
				So(validID.MatchString(id), ShouldBeTrue)
				So(strings.HasPrefix(id, "_"), ShouldBeFalse)
				So(strings.HasSuffix(id, "_"), ShouldBeFalse)
				So(id, ShouldNotContainSubstring, "__")
			}
		})
	})
}

func TestDisplayName(t *testing.T) {
	Convey("Given raw model-version strings", t, func() {
		Convey("When a date and a qualifier trail the name", func() {
			Convey("Then both should be stripped", func() {
				So(identity.DisplayName("OpenAI/GPT-5.2-preview-2025-03-01"), ShouldEqual, "GPT 5.2")
				So(identity.DisplayName("openai/o3-high"), ShouldEqual, "o3")
				So(identity.DisplayName("google/gemini_2.5_PRO"), ShouldEqual, "gemini 2.5")
			})
		})

		Convey("When only a date trails the name", func() {
			Convey("Then the date and everything after it should go", func() {
				So(identity.DisplayName("gpt-4o-2024-08-06"), ShouldEqual, "gpt 4o")
				So(identity.DisplayName("claude_3_opus_2024-02-29_v2"), ShouldEqual, "claude 3 opus")
			})
		})

		Convey("When the qualifier is not at the end", func() {
			Convey("Then it should be kept", func() {
				So(identity.DisplayName("gemini-flash-lite"), ShouldEqual, "gemini flash lite")
			})
		})

		Convey("When the version is missing", func() {
			Convey("Then the placeholder should be returned", func() {
				So(identity.DisplayName(""), ShouldEqual, identity.UnknownName)
			})
		})

		Convey("When stripping leaves nothing", func() {
			Convey("Then the name should be empty", func() {
				So(identity.DisplayName("   "), ShouldBeEmpty)
				So(identity.DisplayName("lab/2024-01-01"), ShouldBeEmpty)
			})
		})
	})
}
