// Package policy holds the role and ownership rules consulted by the services
// before any article or comment mutation.
package policy

import "eagle/internal/model"

// CanModifyComment decides whether requester may update or delete comment.
// requester is nil for unauthenticated requests; providedEmail is the email the
// caller submitted to prove ownership of an anonymous comment.
//
// Access is granted when any of the following holds:
//   - the requester wrote the comment,
//   - the comment is anonymous and providedEmail equals its stored email exactly,
//   - the requester holds a privileged role.
func CanModifyComment(comment *model.Comment, requester *model.User, providedEmail string) bool {
	if comment == nil {
		return false
	}
	if requester != nil && requester.Role.Privileged() {
		return true
	}

	switch owner := comment.Owner().(type) {
	case model.AuthoredBy:
		return requester != nil && requester.ID == owner.UserID
	case model.Anonymous:
		return providedEmail != "" && providedEmail == owner.Email
	}
	return false
}

// CanManageArticles decides whether requester may create, update or delete articles.
func CanManageArticles(requester *model.User) bool {
	return requester != nil && requester.Role.Privileged()
}

// CanAdminister decides whether requester may use administrative endpoints.
func CanAdminister(requester *model.User) bool {
	return requester != nil && requester.Role == model.RoleAdmin
}
