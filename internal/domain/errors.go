package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// ErrStoreUnavailable el almacén de documentos no responde (sin red, timeout, conexión caída).
	ErrStoreUnavailable = errors.New("almacén de documentos no disponible")
	// ErrNotCached el caché local nunca recibió el documento pedido.
	ErrNotCached = errors.New("documento ausente del caché local")
)
