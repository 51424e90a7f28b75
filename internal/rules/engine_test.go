package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xorig/rigctl/internal/model"
	"github.com/xorig/rigctl/internal/schema"
)

func socketRule() model.CompatibilityRule {
	return model.CompatibilityRule{
		ID:       "r1",
		Name:     "CPU socket must match motherboard socket",
		Severity: model.SeverityError,
		Applies:  "CPU + Motherboard",
		Message:  "CPU socket and Motherboard socket must match.",
		Expr: model.Expression{
			Op:    model.OpEq,
			Left:  model.Path{Role: "cpu", Key: "socket"},
			Right: model.Path{Role: "mobo", Key: "socket"},
		},
		Enabled: true,
	}
}

func gpuLengthRule() model.CompatibilityRule {
	return model.CompatibilityRule{
		ID:       "r3",
		Name:     "GPU length must fit case max GPU length",
		Severity: model.SeverityWarn,
		Applies:  "GPU + Case",
		Message:  "GPU length may not fit the selected case.",
		Expr: model.Expression{
			Op:    model.OpLTE,
			Left:  model.Path{Role: "gpu", Key: "length_mm"},
			Right: model.Path{Role: "case", Key: "max_gpu_mm"},
		},
		Enabled: true,
	}
}

func cpu(socket string) *model.Component {
	c := &model.Component{ID: "cmp_cpu", Category: "CPU", Status: model.StatusActive}
	c.SetCompat("socket", socket)
	return c
}

func mobo(socket string) *model.Component {
	c := &model.Component{ID: "cmp_mobo", Category: "Motherboard", Status: model.StatusActive}
	c.SetCompat("socket", socket)
	return c
}

func gpu(lengthMM int64) *model.Component {
	c := &model.Component{ID: "cmp_gpu", Category: "GPU", Status: model.StatusActive}
	c.SetSpec("length_mm", model.SpecValue{Value: model.NewInt(lengthMM), SourceID: "manual", Confidence: 0.9})
	return c
}

func pcCase(maxGPUMM int64) *model.Component {
	c := &model.Component{ID: "cmp_case", Category: "Case", Status: model.StatusActive}
	c.SetSpec("max_gpu_mm", model.SpecValue{Value: model.NewInt(maxGPUMM), SourceID: "manual", Confidence: 0.9})
	return c
}

func TestEngine_Evaluate_Eq(t *testing.T) {
	engine := NewEngine(schema.Default())
	rule := socketRule()

	t.Run("matching sockets satisfy", func(t *testing.T) {
		res := engine.Evaluate(rule, Binding{"cpu": cpu("AM5"), "mobo": mobo("AM5")})
		assert.Equal(t, OutcomeSatisfied, res.Outcome)
	})

	t.Run("mismatched sockets violate with rule message and severity", func(t *testing.T) {
		res := engine.Evaluate(rule, Binding{"cpu": cpu("AM5"), "mobo": mobo("AM4")})
		require.Equal(t, OutcomeViolated, res.Outcome)
		assert.Equal(t, "CPU socket and Motherboard socket must match.", res.Rule.Message)
		assert.Equal(t, model.SeverityError, res.Rule.Severity)
	})

	t.Run("unbound role is unresolved path", func(t *testing.T) {
		res := engine.Evaluate(rule, Binding{"cpu": cpu("AM5")})
		require.Equal(t, OutcomeUnevaluable, res.Outcome)
		assert.Equal(t, ReasonUnresolvedPath, res.Reason)
	})

	t.Run("missing key is unknown key", func(t *testing.T) {
		bare := &model.Component{ID: "cmp_bare", Category: "Motherboard", Status: model.StatusActive}
		res := engine.Evaluate(rule, Binding{"cpu": cpu("AM5"), "mobo": bare})
		require.Equal(t, OutcomeUnevaluable, res.Outcome)
		assert.Equal(t, ReasonUnknownKey, res.Reason)
	})
}

func TestEngine_Evaluate_NumericOps(t *testing.T) {
	engine := NewEngine(schema.Default())
	rule := gpuLengthRule()

	t.Run("lte violated when gpu too long", func(t *testing.T) {
		res := engine.Evaluate(rule, Binding{"gpu": gpu(267), "case": pcCase(240)})
		require.Equal(t, OutcomeViolated, res.Outcome)
		assert.Equal(t, model.SeverityWarn, res.Rule.Severity)
	})

	t.Run("lte satisfied when gpu fits", func(t *testing.T) {
		res := engine.Evaluate(rule, Binding{"gpu": gpu(267), "case": pcCase(300)})
		assert.Equal(t, OutcomeSatisfied, res.Outcome)
	})

	t.Run("lte boundary is inclusive", func(t *testing.T) {
		res := engine.Evaluate(rule, Binding{"gpu": gpu(267), "case": pcCase(267)})
		assert.Equal(t, OutcomeSatisfied, res.Outcome)
	})

	t.Run("gte mirrors lte", func(t *testing.T) {
		gte := rule
		gte.Expr.Op = model.OpGTE
		res := engine.Evaluate(gte, Binding{"gpu": gpu(267), "case": pcCase(240)})
		assert.Equal(t, OutcomeSatisfied, res.Outcome)
	})

	t.Run("non-numeric operand is not comparable", func(t *testing.T) {
		badRule := rule
		badRule.Expr.Right = model.Path{Role: "case", Key: "radiator_support"}

		c := pcCase(240)
		c.SetSpec("radiator_support", model.SpecValue{Value: model.NewString("240mm top"), SourceID: "manual", Confidence: 0.9})

		res := engine.Evaluate(badRule, Binding{"gpu": gpu(267), "case": c})
		require.Equal(t, OutcomeUnevaluable, res.Outcome)
		assert.Equal(t, ReasonNotComparable, res.Reason)
	})
}

func TestEngine_Evaluate_SpecFallback(t *testing.T) {
	// Compatibility map wins over a spec of the same name; specs are the
	// fallback when the key is absent from compatibility.
	engine := NewEngine(schema.Default())
	rule := socketRule()

	c := cpu("AM5")
	c.SetSpec("socket", model.SpecValue{Value: model.NewString("AM4"), SourceID: "pcpt", Confidence: 0.5})

	res := engine.Evaluate(rule, Binding{"cpu": c, "mobo": mobo("AM5")})
	assert.Equal(t, OutcomeSatisfied, res.Outcome)
}

func TestEngine_CheckBuild(t *testing.T) {
	engine := NewEngine(schema.Default())
	allRules := []model.CompatibilityRule{socketRule(), gpuLengthRule()}

	t.Run("full build reports satisfied and violated", func(t *testing.T) {
		report := engine.CheckBuild(allRules, []*model.Component{
			cpu("AM5"), mobo("AM5"), gpu(267), pcCase(240),
		})

		assert.Len(t, report.Satisfied, 1)
		require.Len(t, report.Violations, 1)
		assert.Equal(t, "r3", report.Violations[0].Rule.ID)
		assert.Empty(t, report.Unevaluable)
		assert.False(t, report.HasErrors())
	})

	t.Run("partial build skips with unbound role", func(t *testing.T) {
		// CPU and GPU only: the socket rule has no motherboard to bind.
		report := engine.CheckBuild(allRules, []*model.Component{cpu("AM5"), gpu(267)})

		require.Len(t, report.Unevaluable, 2)
		for _, res := range report.Unevaluable {
			assert.Equal(t, ReasonUnboundRole, res.Reason)
		}
		assert.Empty(t, report.Violations)
		assert.False(t, report.HasErrors())
		assert.Equal(t, 0, report.CountBySeverity()[model.SeverityError])
	})

	t.Run("two motherboards are ambiguous", func(t *testing.T) {
		second := mobo("AM4")
		second.ID = "cmp_mobo_2"

		report := engine.CheckBuild([]model.CompatibilityRule{socketRule()}, []*model.Component{
			cpu("AM5"), mobo("AM5"), second,
		})

		require.Len(t, report.Unevaluable, 1)
		assert.Equal(t, ReasonAmbiguousBinding, report.Unevaluable[0].Reason)
		assert.Empty(t, report.Violations)
	})

	t.Run("disabled rules are omitted entirely", func(t *testing.T) {
		disabled := socketRule()
		disabled.Enabled = false

		report := engine.CheckBuild([]model.CompatibilityRule{disabled}, []*model.Component{
			cpu("AM5"), mobo("AM4"),
		})

		assert.Zero(t, report.Total())
	})

	t.Run("unknown role alias is unresolved", func(t *testing.T) {
		rule := socketRule()
		rule.Expr.Left.Role = "cooler"

		report := engine.CheckBuild([]model.CompatibilityRule{rule}, []*model.Component{
			cpu("AM5"), mobo("AM5"),
		})

		require.Len(t, report.Unevaluable, 1)
		assert.Equal(t, ReasonUnresolvedPath, report.Unevaluable[0].Reason)
	})

	t.Run("violations sort error before warn", func(t *testing.T) {
		report := engine.CheckBuild(allRules, []*model.Component{
			cpu("AM5"), mobo("AM4"), gpu(267), pcCase(240),
		})

		require.Len(t, report.Violations, 2)
		assert.Equal(t, model.SeverityError, report.Violations[0].Rule.Severity)
		assert.Equal(t, model.SeverityWarn, report.Violations[1].Rule.Severity)
		assert.True(t, report.HasErrors())

		counts := report.CountBySeverity()
		assert.Equal(t, 1, counts[model.SeverityError])
		assert.Equal(t, 1, counts[model.SeverityWarn])
	})
}

func TestEngine_CheckBuild_MemoryTypeRule(t *testing.T) {
	engine := NewEngine(schema.Default())
	rule := model.CompatibilityRule{
		ID:       "r2",
		Name:     "RAM memory type must match motherboard memory type",
		Severity: model.SeverityError,
		Applies:  "RAM + Motherboard",
		Message:  "RAM type (DDR4/DDR5) must match the motherboard.",
		Expr: model.Expression{
			Op:    model.OpEq,
			Left:  model.Path{Role: "ram", Key: "memory_type"},
			Right: model.Path{Role: "mobo", Key: "memory_type"},
		},
		Enabled: true,
	}

	ram := &model.Component{ID: "cmp_ram", Category: "RAM", Status: model.StatusActive}
	ram.SetCompat("memory_type", "DDR5")
	board := mobo("AM5")
	board.SetCompat("memory_type", "DDR5")

	report := engine.CheckBuild([]model.CompatibilityRule{rule}, []*model.Component{ram, board})
	require.Len(t, report.Satisfied, 1)

	board.SetCompat("memory_type", "DDR4")
	report = engine.CheckBuild([]model.CompatibilityRule{rule}, []*model.Component{ram, board})
	require.Len(t, report.Violations, 1)
	assert.True(t, report.HasErrors())
}
