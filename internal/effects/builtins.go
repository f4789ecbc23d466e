package effects

import "github.com/GriffinCanCode/gradualtype/internal/types"

// builtinEffectTable maps builtin call names to their fixed effect
//, as data rather than a switch statement. A name absent from this
// table contributes the effect set of its binding in the environment
// when that binding is an effect-annotated type, and no effect
// otherwise.
var builtinEffectTable = map[string]string{
	"print": types.EffIO, "input": types.EffIO, "open": types.EffIO,

	"random": types.EffRandom, "randint": types.EffRandom,
	"choice": types.EffRandom, "shuffle": types.EffRandom,

	"time": types.EffTime, "sleep": types.EffTime,

	"len": types.EffPure, "abs": types.EffPure, "min": types.EffPure,
	"max": types.EffPure, "sum": types.EffPure, "sorted": types.EffPure,
	"reversed": types.EffPure,
}
