package guide

import (
	"testing"

	"growcore/testutil"
)

func TestGuideStaysBelowService(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.PrefixForbidden("growcore/internal/core", "growcore/internal/adapters", "growcore/internal/blob"),
		"guide content and renderers must not depend on the service or storage layers")
}
