// Copyright (c) 2015-2026, ParaTools, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package workflow

import (
	"os"

	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/paratools/taucmdr/tests/e2e/utils"
)

var _ = ginkgo.Describe("[Workflow]", func() {
	var (
		bin     string
		workDir string
	)

	ginkgo.BeforeEach(func() {
		if !utils.ExtendedTestsEnabled() {
			ginkgo.Skip("RUN_EXTENDED_TESTS != true")
		}
		var err error
		bin, err = utils.Binary()
		if err != nil {
			ginkgo.Skip(err.Error())
		}
		workDir, err = os.MkdirTemp("", "taucmdr-e2e-*")
		gomega.Expect(err).Should(gomega.BeNil())
	})

	ginkgo.AfterEach(func() {
		_ = os.RemoveAll(workDir)
	})

	ginkgo.It("records a project, target, application and trial", func() {
		out, err := utils.RunIn(workDir, bin, "project", "init", "demo")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("Initialized project"))

		out, err = utils.RunIn(workDir, bin, "target", "create", "thishost")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("Created target"))

		out, err = utils.RunIn(workDir, bin, "application", "create", "demoapp", "--mpi")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("Created application"))

		out, err = utils.RunIn(workDir, bin, "trial", "create", "--", "echo", "hello from taucmdr")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("Trial 0001 complete"))

		out, err = utils.RunIn(workDir, bin, "trial", "list")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("echo hello from taucmdr"))

		out, err = utils.RunIn(workDir, bin, "trial", "show", "1")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("hello from taucmdr"))
		gomega.Expect(out).Should(gomega.ContainSubstring("exit:     0"))
	})

	ginkgo.It("records a failing trial without losing it", func() {
		out, err := utils.RunIn(workDir, bin, "project", "init", "demo")
		gomega.Expect(err).Should(gomega.BeNil(), out)

		out, err = utils.RunIn(workDir, bin, "trial", "create", "--", "false")
		gomega.Expect(err).Should(gomega.HaveOccurred())
		gomega.Expect(out).Should(gomega.ContainSubstring("failing run"))

		out, err = utils.RunIn(workDir, bin, "trial", "show", "1")
		gomega.Expect(err).Should(gomega.BeNil(), out)
		gomega.Expect(out).Should(gomega.ContainSubstring("exit:     1"))
	})

	ginkgo.It("refuses nested projects", func() {
		out, err := utils.RunIn(workDir, bin, "project", "init", "outer")
		gomega.Expect(err).Should(gomega.BeNil(), out)

		inner := workDir + "/inner"
		gomega.Expect(os.MkdirAll(inner, 0o755)).Should(gomega.BeNil())
		out, err = utils.RunIn(inner, bin, "project", "init", "nested")
		gomega.Expect(err).Should(gomega.HaveOccurred())
		gomega.Expect(out).Should(gomega.ContainSubstring("already belongs to the project"))
	})
})
