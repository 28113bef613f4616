package forms

// Control keys carried by guest entry forms.
const (
	KeyToken         = "_token"
	KeyCollection    = "_collection"
	KeyID            = "_id"
	KeyRedirect      = "_redirect"
	KeyErrorRedirect = "_error_redirect"
	KeyRequest       = "_request"
	KeySlug          = "slug"
	KeyPublished     = "published"
	KeySite          = "site"
	KeyDate          = "date"
	KeyTitle         = "title"
)
