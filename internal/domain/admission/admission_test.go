package admission_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/benchmatrix/internal/domain/admission"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterAdmit(t *testing.T) {
	Convey("Given a filter with the default families", t, func() {
		ctx := context.Background()
		f, err := admission.New(admission.DefaultFamilies())
		So(err, ShouldBeNil)

		Convey("When three gpt-5.2 rows arrive", func() {
			a, famA := f.Admit(ctx, "gpt-5.2-a")
			b, _ := f.Admit(ctx, "gpt-5.2-b")
			c, famC := f.Admit(ctx, "gpt-5.2-c")

			Convey("Then only the first two are admitted", func() {
				So(a, ShouldBeTrue)
				So(b, ShouldBeTrue)
				So(c, ShouldBeFalse)
				So(famA, ShouldEqual, "gpt-5.2")
				So(famC, ShouldEqual, "gpt-5.2")
			})

			Convey("And later rows of the family stay rejected", func() {
				for i := 0; i < 5; i++ {
					ok, _ := f.Admit(ctx, fmt.Sprintf("GPT-5.2-extra-%d", i))
					So(ok, ShouldBeFalse)
				}
				counters := f.Counters()
				So(counters[0].Count, ShouldEqual, 8)
				So(counters[0].Admitted, ShouldResemble, []string{"gpt-5.2-a", "gpt-5.2-b"})
				So(len(counters[0].Rejected), ShouldEqual, 6)
			})

			Convey("And the gpt-5 family is unaffected", func() {
				ok, fam := f.Admit(ctx, "openai/gpt-5-mini")
				So(ok, ShouldBeTrue)
				So(fam, ShouldEqual, "gpt-5")
				So(f.Counters()[1].Count, ShouldEqual, 1)
			})
		})

		Convey("When a gpt-5.2 row is checked", func() {
			f.Admit(ctx, "gpt-5.2")

			Convey("Then it counts only against the more specific family", func() {
				counters := f.Counters()
				So(counters[0].Count, ShouldEqual, 1)
				So(counters[1].Count, ShouldEqual, 0)
			})
		})

		Convey("When gemini-3 rows arrive", func() {
			first, _ := f.Admit(ctx, "Gemini-3-Pro")
			second, _ := f.Admit(ctx, "gemini-3-flash")

			Convey("Then the ceiling of one applies case-insensitively", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
			})
		})

		Convey("When rows match no family", func() {
			Convey("Then they are always admitted", func() {
				for i := 0; i < 10; i++ {
					ok, fam := f.Admit(ctx, "claude-3-opus")
					So(ok, ShouldBeTrue)
					So(fam, ShouldBeEmpty)
				}
				ok, _ := f.Admit(ctx, "")
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestFilterReset(t *testing.T) {
	Convey("Given a filter with an exhausted family", t, func() {
		ctx := context.Background()
		f, err := admission.New(admission.DefaultFamilies())
		So(err, ShouldBeNil)
		f.Admit(ctx, "gemini-3-pro")
		ok, _ := f.Admit(ctx, "gemini-3-ultra")
		So(ok, ShouldBeFalse)

		Convey("When the filter is reset", func() {
			f.Reset(ctx)

			Convey("Then the ceiling is available again and logs are cleared", func() {
				for _, c := range f.Counters() {
					So(c.Count, ShouldEqual, 0)
					So(c.Admitted, ShouldBeEmpty)
					So(c.Rejected, ShouldBeEmpty)
				}
				ok, _ := f.Admit(ctx, "gemini-3-ultra")
				So(ok, ShouldBeTrue)
			})
		})
	})
}

func TestFilterConcurrency(t *testing.T) {
	Convey("Given a filter shared by many goroutines", t, func() {
		ctx := context.Background()
		f, err := admission.New([]admission.Family{{Name: "hot", Pattern: "hot", Ceiling: 5}})
		So(err, ShouldBeNil)

		Convey("When 100 matching rows are checked concurrently", func() {
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				admitted int
			)
			for i := 0; i < 100; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if ok, _ := f.Admit(ctx, fmt.Sprintf("hot-%d", i)); ok {
						mu.Lock()
						admitted++
						mu.Unlock()
					}
				}(i)
			}
			wg.Wait()

			Convey("Then exactly the ceiling is admitted", func() {
				So(admitted, ShouldEqual, 5)
				So(f.Counters()[0].Count, ShouldEqual, 100)
			})
		})
	})
}

func TestNewValidation(t *testing.T) {
	Convey("Given invalid family tables", t, func() {
		cases := map[string]admission.Family{
			"empty pattern":    {Name: "x", Ceiling: 1},
			"negative ceiling": {Name: "x", Pattern: "x", Ceiling: -1},
			"bad pattern":      {Name: "x", Pattern: "(", Ceiling: 1},
			"bad exclude":      {Name: "x", Pattern: "x", Exclude: "[", Ceiling: 1},
		}

		for name, fam := range cases {
			Convey("When the family has "+name, func() {
				_, err := admission.New([]admission.Family{fam})

				Convey("Then New should fail with ErrInvalidFamily", func() {
					So(errors.Is(err, admission.ErrInvalidFamily), ShouldBeTrue)
				})
			})
		}

		Convey("When a family has no name", func() {
			f, err := admission.New([]admission.Family{{Pattern: "llama", Ceiling: 0}})

			Convey("Then the pattern names it and a zero ceiling rejects every match", func() {
				So(err, ShouldBeNil)
				ok, fam := f.Admit(context.Background(), "llama-3")
				So(ok, ShouldBeFalse)
				So(fam, ShouldEqual, "llama")
			})
		})
	})
}
