package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo code + message utilisateur dérivés d'une erreur brute
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError convertit une erreur GORM/Postgres en code stable et message
// utilisateur, sans exposer de détail interne.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Erreur serveur"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Violations de contraintes Postgres
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// Erreurs réseau / connexion
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Connexion au service impossible. Veuillez réessayer plus tard",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Cet email est déjà utilisé"}
	}
	if strings.Contains(errLower, "categories") && strings.Contains(errLower, "nom") {
		return ErrorInfo{Code: CategoryNameExists, Message: "Une catégorie avec ce nom existe déjà"}
	}
	if strings.Contains(errLower, "slugs") || strings.Contains(errLower, "slug") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ce slug est déjà utilisé"}
	}
	if strings.Contains(errLower, "cart_items") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Cet article est déjà dans le panier"}
	}
	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ces données existent déjà. Veuillez réessayer"}
	}

	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ces données existent déjà"}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "category") || strings.Contains(context, "catégorie") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Des services sont rattachés à cette catégorie, suppression impossible",
			}
		}
		if strings.Contains(context, "service") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "Ce service figure dans des paniers ou commandes, suppression impossible",
			}
		}
		return ErrorInfo{Code: ResourceConflict, Message: "Des données liées empêchent la suppression"}
	}

	if strings.Contains(errLower, "service_id") {
		return ErrorInfo{Code: ServiceNotFound, Message: "Service inexistant"}
	}
	if strings.Contains(errLower, "user_id") {
		return ErrorInfo{Code: ResourceNotFound, Message: "Utilisateur inexistant"}
	}
	if strings.Contains(errLower, "id_categorie") {
		return ErrorInfo{Code: CategoryNotFound, Message: "Catégorie inexistante"}
	}
	if strings.Contains(errLower, "id_sous_categorie") {
		return ErrorInfo{Code: SubCategoryNotFound, Message: "Sous-catégorie inexistante"}
	}

	return ErrorInfo{Code: ResourceNotFound, Message: "Donnée référencée introuvable"}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "L'email est obligatoire"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Le mot de passe est obligatoire"}
	}
	if strings.Contains(errLower, "nom") {
		return ErrorInfo{Code: ValidationRequired, Message: "Le nom est obligatoire"}
	}

	return ErrorInfo{Code: ValidationRequired, Message: "Un champ obligatoire est manquant"}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "user") || strings.Contains(contextLower, "utilisateur"):
		return "Utilisateur introuvable"
	case strings.Contains(contextLower, "service"):
		return "Service introuvable"
	case strings.Contains(contextLower, "categor"):
		return "Catégorie introuvable"
	case strings.Contains(contextLower, "cart") || strings.Contains(contextLower, "panier"):
		return "Article non trouvé"
	case strings.Contains(contextLower, "order") || strings.Contains(contextLower, "commande"):
		return "Commande introuvable"
	case strings.Contains(contextLower, "contact"):
		return "Message introuvable"
	}

	return "Donnée introuvable"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create") || strings.Contains(contextLower, "création"):
		return "Erreur lors de la création. Veuillez réessayer plus tard"
	case strings.Contains(contextLower, "update") || strings.Contains(contextLower, "mise à jour"):
		return "Erreur lors de la mise à jour. Veuillez réessayer plus tard"
	case strings.Contains(contextLower, "delete") || strings.Contains(contextLower, "suppression"):
		return "Erreur lors de la suppression. Veuillez réessayer plus tard"
	}

	return "Erreur serveur. Veuillez réessayer plus tard"
}
