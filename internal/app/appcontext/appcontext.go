package appcontext

const (
	EnvServer Env = iota
	EnvCLI
	EnvTest
)

type Env int

func (e Env) String() string {
	switch e {
	case EnvServer:
		return "server"
	case EnvCLI:
		return "cli"
	case EnvTest:
		return "test"
	default:
		return "unknown"
	}
}

// Ctx is the application context owned by the process entry point. It is created once
// and handed down explicitly; nothing in the module reaches for it through globals.
type Ctx struct {
	Env Env

	// Profile selects an additional `.env.<profile>` file to load before `.env`.
	Profile string

	// Overrides holds values given on the command line. They win over every other source.
	Overrides Overrides
}

type Overrides struct {
	ServiceAddress string
	DatabaseDSN    string
}

func Declare(env Env) Ctx {
	return Ctx{
		Env: env,
	}
}

func (c Ctx) WithProfile(profile string) Ctx {
	c.Profile = profile
	return c
}

func (c Ctx) WithOverrides(o Overrides) Ctx {
	c.Overrides = o
	return c
}
