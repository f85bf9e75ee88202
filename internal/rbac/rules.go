package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"lesson:view",
		"quiz:take",
		"quiz:submit",
		"results:view-own",
		"chat:send",
		"chat:history",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
