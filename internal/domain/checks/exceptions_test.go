package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relkit/relkit/internal/domain/checks"
)

func TestExceptionBoundaries_CoreLayerViolation(t *testing.T) {
	content := `package body Orders is
   procedure Place is
   begin
      null;
   exception
      when others => null;
   end Place;
end Orders;
`
	findings := checks.ExceptionBoundaries("src/domain/orders.adb", content)
	require.Len(t, findings, 1)
	assert.Equal(t, 5, findings[0].Line)
	assert.Contains(t, findings[0].Message, "Result types only")
}

func TestExceptionBoundaries_BoundaryLayerMessage(t *testing.T) {
	content := "begin\n   null;\nexception\n   when others => null;\nend;\n"
	findings := checks.ExceptionBoundaries("src/infrastructure/db.adb", content)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "Functional.Try.Map_To_Result")
}

func TestExceptionBoundaries_DeliberateCommentSuppresses(t *testing.T) {
	content := `begin
   null;
exception
   --  DESIGN DECISION: Preelaborate package cannot use Functional.Try
   when others => null;
end;
`
	assert.Empty(t, checks.ExceptionBoundaries("src/domain/clock.adb", content))
}

func TestExceptionBoundaries_Exemptions(t *testing.T) {
	content := "exception\n   when others => null;\n"

	// bootstrap may handle exceptions
	assert.Empty(t, checks.ExceptionBoundaries("src/bootstrap/start.adb", content))
	// test code is exempt
	assert.Empty(t, checks.ExceptionBoundaries("tests/unit/orders_test.adb", content))
	// so is the entry point
	assert.Empty(t, checks.ExceptionBoundaries("src/main.adb", content))
	// and files outside the layer tree
	assert.Empty(t, checks.ExceptionBoundaries("src/util/misc.adb", content))
}

func TestExceptionBoundaries_CommentLinesIgnored(t *testing.T) {
	content := "--  exception handling is discussed in docs/errors.md\nbegin\n   null;  -- no exception here\nend;\n"
	assert.Empty(t, checks.ExceptionBoundaries("src/domain/notes.adb", content))
}

func TestExceptionBoundaries_FirstHitOnly(t *testing.T) {
	content := "exception\n   when others => null;\nexception\n"
	findings := checks.ExceptionBoundaries("src/application/svc.adb", content)
	assert.Len(t, findings, 1)
}
