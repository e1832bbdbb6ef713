package jump_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestJump(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Jump Suite")
}
