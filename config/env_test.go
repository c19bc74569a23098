package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/framesim/config"
)

var envVars = []string{
	"FRAMESIM_SEED",
	"FRAMESIM_FRAMES",
	"FRAMESIM_LOG_LEVEL",
	"FRAMESIM_LOG_CONSOLE",
	"FRAMESIM_RECORD",
	"FRAMESIM_MONITOR",
	"FRAMESIM_MONITOR_PORT",
}

var _ = Describe("Config", func() {
	BeforeEach(func() {
		for _, name := range envVars {
			value, ok := os.LookupEnv(name)
			Expect(os.Unsetenv(name)).To(Succeed())

			if ok {
				DeferCleanup(os.Setenv, name, value)
			} else {
				DeferCleanup(os.Unsetenv, name)
			}
		}
	})

	It("should use the defaults", func() {
		cfg, err := config.ParseEnv()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg).To(Equal(config.Config{
			Frames:     100,
			LogLevel:   "info",
			LogConsole: true,
		}))
	})

	It("should read the environment", func() {
		GinkgoT().Setenv("FRAMESIM_SEED", "42")
		GinkgoT().Setenv("FRAMESIM_FRAMES", "7")
		GinkgoT().Setenv("FRAMESIM_MONITOR", "true")
		GinkgoT().Setenv("FRAMESIM_MONITOR_PORT", "8080")

		cfg, err := config.ParseEnv()

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Seed).To(Equal(uint64(42)))
		Expect(cfg.Frames).To(Equal(uint64(7)))
		Expect(cfg.Monitor).To(BeTrue())
		Expect(cfg.MonitorPort).To(Equal(8080))
	})

	It("should reject malformed values", func() {
		GinkgoT().Setenv("FRAMESIM_FRAMES", "many")

		_, err := config.ParseEnv()

		Expect(err).To(HaveOccurred())
	})

	It("should load a dotenv file without overriding the environment", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, ".env")
		Expect(os.WriteFile(path,
			[]byte("FRAMESIM_SEED=9\nFRAMESIM_RECORD=out\n"), 0o600)).
			To(Succeed())
		GinkgoT().Setenv("FRAMESIM_SEED", "3")

		cfg, err := config.Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Seed).To(Equal(uint64(3)))
		Expect(cfg.Record).To(Equal("out"))
	})

	It("should ignore a missing dotenv file", func() {
		_, err := config.Load(filepath.Join(GinkgoT().TempDir(), ".env"))

		Expect(err).NotTo(HaveOccurred())
	})
})
