package errors

// Codes d'erreur stables renvoyés au frontend.
// Format : CATEGORIE_DETAIL. Le frontend mappe ces codes vers ses messages.

const (
	// ==================== Authentification (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // connexion requise
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // email/mot de passe incorrect
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // jeton expiré
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // jeton invalide
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // jeton révoqué (déconnexion)
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email déjà utilisé

	// ==================== Autorisation (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // accès refusé
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // réservé aux administrateurs
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // rôle introuvable dans le contexte

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // données invalides
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // identifiant invalide
	ValidationRequired     = "VALIDATION_REQUIRED"      // champ obligatoire manquant

	// ==================== Ressources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // ressource introuvable
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // ressource déjà existante
	ResourceConflict      = "RESOURCE_CONFLICT"       // conflit (données liées)

	// ==================== Catalogue (CATALOG_) ====================
	CategoryNotFound     = "CATALOG_CATEGORY_NOT_FOUND"     // catégorie introuvable
	CategoryNameExists   = "CATALOG_CATEGORY_NAME_EXISTS"   // nom de catégorie déjà pris
	CategorySlugExists   = "CATALOG_CATEGORY_SLUG_EXISTS"   // slug de catégorie déjà pris
	SubCategoryNotFound  = "CATALOG_SUBCATEGORY_NOT_FOUND"  // sous-catégorie introuvable
	ServiceNotFound      = "CATALOG_SERVICE_NOT_FOUND"      // service introuvable
	ServiceUnavailable   = "CATALOG_SERVICE_UNAVAILABLE"    // service indisponible
	ServiceSlugExists    = "CATALOG_SERVICE_SLUG_EXISTS"    // slug de service déjà pris

	// ==================== Panier (CART_) ====================
	CartItemNotFound    = "CART_ITEM_NOT_FOUND"    // article absent du panier
	CartInvalidQuantity = "CART_INVALID_QUANTITY"  // quantité invalide

	// ==================== Commandes (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"       // commande introuvable
	OrderEmptyCart     = "ORDER_EMPTY_CART"      // panier vide à la commande
	OrderInvalidStatus = "ORDER_INVALID_STATUS"  // statut de commande invalide

	// ==================== Contact (CONTACT_) ====================
	ContactMessageNotFound = "CONTACT_MESSAGE_NOT_FOUND" // message introuvable

	// ==================== Téléversement (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // type de fichier refusé
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // fichier trop volumineux
	UploadFailed          = "UPLOAD_FAILED"            // échec du téléversement

	// ==================== Erreurs internes (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // erreur serveur
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // erreur base de données
)
