package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/datarecording"
	"github.com/sarchlab/framesim/framesim/cmd"
)

func execute(args ...string) (string, error) {
	out := new(bytes.Buffer)

	root := cmd.NewRootCommand()
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(append(args,
		"--env-file", filepath.Join(GinkgoT().TempDir(), ".env"),
		"--log-level", "off"))

	err := root.Execute()

	return out.String(), err
}

var _ = Describe("framesim", func() {
	BeforeEach(func() {
		for _, name := range []string{
			"FRAMESIM_SEED", "FRAMESIM_FRAMES", "FRAMESIM_RECORD",
			"FRAMESIM_MONITOR",
		} {
			GinkgoT().Setenv(name, "")
			Expect(os.Unsetenv(name)).To(Succeed())
		}
	})

	It("should count frames", func() {
		out, err := execute("counter", "--frames", "5")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("counter: 5 frames, 0 events fired"))
		Expect(out).To(ContainSubstring("count: 5"))
	})

	It("should take the frame count from the environment", func() {
		GinkgoT().Setenv("FRAMESIM_FRAMES", "7")

		out, err := execute("counter")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("count: 7"))
	})

	It("should drive until the engine stops", func() {
		out, err := execute("drive", "--frames", "100000", "--seed", "4")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("car engine stopped"))
		Expect(out).To(ContainSubstring("start charge:"))
	})

	It("should walk the default walkers", func() {
		out, err := execute("walk", "--frames", "30", "--seed", "2")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("immediate: 1 steps"))
		Expect(out).To(ContainSubstring("everytime: 30 steps"))
		Expect(out).To(ContainSubstring("timeout(fixed(10)): 1 steps"))
	})

	It("should walk the walkers of a scenario", func() {
		path := filepath.Join(GinkgoT().TempDir(), "walk.yaml")
		Expect(os.WriteFile(path, []byte(`
walkers:
  - name: ticker
    schedule: every_interval
    timer: {fixed: 5}
`), 0o600)).To(Succeed())

		out, err := execute("walk", "--frames", "20", "--scenario", path)

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("ticker: 4 steps"))
	})

	It("should fail on an invalid scenario", func() {
		path := filepath.Join(GinkgoT().TempDir(), "walk.yaml")
		Expect(os.WriteFile(path, []byte("walkers: []\n"), 0o600)).
			To(Succeed())

		_, err := execute("walk", "--scenario", path)

		Expect(err).To(HaveOccurred())
	})

	It("should print the timeline", func() {
		out, err := execute("timeline", "--frames", "30", "--seed", "1")

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Azio: こんにちは"))
		Expect(out).To(ContainSubstring("refresh: 3"))
	})

	It("should record fired events", func() {
		path := filepath.Join(GinkgoT().TempDir(), "record")

		_, err := execute("walk", "--frames", "10", "--record", path)
		Expect(err).NotTo(HaveOccurred())

		reader := datarecording.NewReader(path + ".sqlite3")
		defer reader.Close()

		reader.MapTable(datarecording.FrameTable, datarecording.FrameEntry{})
		_, total, err := reader.Query(context.Background(),
			datarecording.FrameTable, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(10))
	})

	It("should report a recorded run", func() {
		path := filepath.Join(GinkgoT().TempDir(), "record")

		_, err := execute("timeline", "--frames", "30", "--seed", "1",
			"--record", path)
		Expect(err).NotTo(HaveOccurred())

		out, err := execute("report", "--record", path)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(MatchRegexp(
			`(?m)^\S+: 30 frames, \d+ events fired, \d+ pending$`))
		Expect(out).To(ContainSubstring("  refresh: 3\n"))
	})

	It("should fail to report without a recording", func() {
		_, err := execute("report")
		Expect(err).To(HaveOccurred())

		_, err = execute("report", "--record",
			filepath.Join(GinkgoT().TempDir(), "missing"))
		Expect(err).To(HaveOccurred())
	})
})
