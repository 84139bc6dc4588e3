package ez

// Routes are the groups a feature module mounts its actions on.
type Routes struct {
	Public EZ
	// Limited is Public behind the per-IP limiter, for credential and mail endpoints.
	Limited EZ
	Authed  EZ
}
