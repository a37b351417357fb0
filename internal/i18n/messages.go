package i18n

var catalogs = map[string]map[string]string{
	LocaleES: {
		"error.bad_request":            "Solicitud inválida",
		"error.internal":               "Error interno del servidor",
		"error.unauthorized":           "No autorizado",
		"error.forbidden":              "Acceso denegado",
		"error.auth_header_missing":    "Falta el encabezado de autorización",
		"error.auth_header_invalid":    "Encabezado de autorización inválido",
		"error.token_invalid":          "Token inválido o vencido",
		"error.token_revoked":          "La sesión fue revocada, inicia sesión de nuevo",
		"error.jwt_secret_missing":     "Autenticación no configurada",
		"error.rate_limited":           "Demasiadas solicitudes, intenta de nuevo en %d segundos",
		"error.login_too_many":         "Demasiados intentos de inicio de sesión, intenta de nuevo en %d segundos",
		"error.order_too_many":         "Demasiados pedidos seguidos, intenta de nuevo en %d segundos",

		"error.restaurant_identifier_missing": "No se proporcionó un identificador de restaurante",
		"error.restaurant_not_found":          "Restaurante no encontrado: %s",
		"error.subscription_inactive":         "Este restaurante no está disponible en este momento. Suscripción inactiva o vencida.",
		"error.menu_load_failed":              "Error al cargar el menú",

		"error.product_not_found":      "Producto no encontrado",
		"error.product_not_available":  "El producto no está disponible",
		"error.variation_not_found":    "Variación no encontrada",
		"error.quantity_invalid":       "La cantidad debe ser mayor a cero",
		"error.quantity_too_large":     "La cantidad supera el máximo permitido por producto",
		"error.cart_line_not_found":    "El artículo no está en el carrito",
		"error.cart_empty":             "Tu carrito está vacío",
		"error.session_invalid":        "Sesión inválida",
		"error.checkout_step_invalid":  "Acción no permitida en este paso del pedido",
		"error.delivery_mode_invalid":  "Modo de entrega inválido",
		"error.checkout_contact":       "Por favor completa tu nombre y teléfono",
		"error.checkout_address":       "Por favor completa la dirección de entrega",
		"error.order_create_failed":    "No se pudo enviar tu pedido. Intenta de nuevo.",
		"error.order_not_found":        "Pedido no encontrado",
		"error.order_status_invalid":   "Cambio de estado del pedido no permitido",
		"error.order_fetch_failed":     "Error al cargar los pedidos",
		"error.order_update_failed":    "Error al actualizar el pedido",
		"error.order_export_failed":    "Error al exportar los pedidos",
		"error.live_feed_unavailable":  "Las notificaciones en vivo no están disponibles",
		"error.category_not_found":     "Categoría no encontrada",
		"error.category_name_required": "El nombre de la categoría es obligatorio",
		"error.category_in_use":        "La categoría tiene productos asociados",
		"error.category_save_failed":   "Error al guardar la categoría",
		"error.product_name_required":  "El nombre del producto es obligatorio",
		"error.product_category_required":  "Debes seleccionar una categoría",
		"error.product_variation_required": "Agrega al menos una variación válida",
		"error.ingredient_id_invalid":      "Los ingredientes tienen identificadores repetidos o inválidos",
		"error.product_status_invalid":     "Estado de producto inválido",
		"error.product_save_failed":        "Error al guardar el producto",

		"error.register_fields_required": "Por favor completa todos los campos obligatorios",
		"error.email_invalid":            "Correo electrónico inválido",
		"error.password_too_short":       "La contraseña debe tener al menos %d caracteres",
		"error.password_mismatch":        "Las contraseñas no coinciden",
		"error.terms_required":           "Debes aceptar los términos y condiciones",
		"error.email_exists":             "El correo ya está registrado",
		"error.slug_exists":              "Ya existe un restaurante con ese nombre",
		"error.register_failed":          "Error al registrar el restaurante",
		"error.login_invalid":            "Correo o contraseña incorrectos",
		"error.restaurant_pending":       "Tu restaurante está pendiente de aprobación",
		"error.captcha_required":         "Completa el captcha",
		"error.captcha_invalid":          "Captcha incorrecto",
		"error.captcha_generate_failed":  "Error al generar el captcha",
		"error.captcha_unavailable":      "El captcha no está habilitado",
		"error.password_reset_failed":    "Error al solicitar el cambio de contraseña",

		"error.restaurant_update_failed":    "Error al actualizar el restaurante",
		"error.subscription_update_failed":  "Error al actualizar la suscripción",
		"error.plan_invalid":                "Plan inválido",
		"error.subscription_status_invalid": "Estado de suscripción inválido",
		"error.reset_failed":                "Error al restablecer los datos",
		"error.dashboard_fetch_failed":      "Error al cargar el panel",

		"message.password_reset_requested": "Si el correo está registrado, recibirás instrucciones para restablecer tu contraseña",
		"message.register_pending":         "Registro exitoso. Tu restaurante quedará activo cuando sea aprobado.",
		"message.data_reset":               "Datos restablecidos a su estado inicial",

		"label.delivery_mode.pickup":   "Retiro en Tienda",
		"label.delivery_mode.dine-in":  "Consumir en Restaurante",
		"label.delivery_mode.delivery": "Entrega a Domicilio",

		"export.sheet_orders":   "Pedidos",
		"export.col_id":         "Pedido",
		"export.col_created_at": "Fecha",
		"export.col_customer":   "Cliente",
		"export.col_phone":      "Teléfono",
		"export.col_mode":       "Entrega",
		"export.col_address":    "Dirección",
		"export.col_items":      "Artículos",
		"export.col_total":      "Total",
		"export.col_status":     "Estado",
	},
	LocaleEN: {
		"error.bad_request":            "Invalid request",
		"error.internal":               "Internal server error",
		"error.unauthorized":           "Unauthorized",
		"error.forbidden":              "Forbidden",
		"error.auth_header_missing":    "Authorization header is missing",
		"error.auth_header_invalid":    "Authorization header is invalid",
		"error.token_invalid":          "Token is invalid or expired",
		"error.token_revoked":          "Session revoked, please sign in again",
		"error.jwt_secret_missing":     "Authentication is not configured",
		"error.rate_limited":           "Too many requests, retry in %d seconds",
		"error.login_too_many":         "Too many login attempts, retry in %d seconds",
		"error.order_too_many":         "Too many orders in a row, retry in %d seconds",

		"error.restaurant_identifier_missing": "No restaurant identifier was provided",
		"error.restaurant_not_found":          "Restaurant not found: %s",
		"error.subscription_inactive":         "This restaurant is not available right now. Subscription inactive or expired.",
		"error.menu_load_failed":              "Failed to load the menu",

		"error.product_not_found":      "Product not found",
		"error.product_not_available":  "Product is not available",
		"error.variation_not_found":    "Variation not found",
		"error.quantity_invalid":       "Quantity must be greater than zero",
		"error.quantity_too_large":     "Quantity exceeds the per item limit",
		"error.cart_line_not_found":    "Item is not in the cart",
		"error.cart_empty":             "Your cart is empty",
		"error.session_invalid":        "Invalid session",
		"error.checkout_step_invalid":  "Action not allowed at this checkout step",
		"error.delivery_mode_invalid":  "Invalid delivery mode",
		"error.checkout_contact":       "Please enter your name and phone",
		"error.checkout_address":       "Please enter the delivery address",
		"error.order_create_failed":    "Your order could not be submitted. Please retry.",
		"error.order_not_found":        "Order not found",
		"error.order_status_invalid":   "Order status change not allowed",
		"error.order_fetch_failed":     "Failed to load orders",
		"error.order_update_failed":    "Failed to update the order",
		"error.order_export_failed":    "Failed to export orders",
		"error.live_feed_unavailable":  "Live notifications are unavailable",
		"error.category_not_found":     "Category not found",
		"error.category_name_required": "Category name is required",
		"error.category_in_use":        "Category still has products",
		"error.category_save_failed":   "Failed to save the category",
		"error.product_name_required":  "Product name is required",
		"error.product_category_required":  "A category is required",
		"error.product_variation_required": "Add at least one valid variation",
		"error.ingredient_id_invalid":      "Ingredients have duplicate or invalid ids",
		"error.product_status_invalid":     "Invalid product status",
		"error.product_save_failed":        "Failed to save the product",

		"error.register_fields_required": "Please fill in all required fields",
		"error.email_invalid":            "Invalid email address",
		"error.password_too_short":       "Password must be at least %d characters",
		"error.password_mismatch":        "Passwords do not match",
		"error.terms_required":           "You must accept the terms and conditions",
		"error.email_exists":             "Email is already registered",
		"error.slug_exists":              "A restaurant with that name already exists",
		"error.register_failed":          "Failed to register the restaurant",
		"error.login_invalid":            "Wrong email or password",
		"error.restaurant_pending":       "Your restaurant is pending approval",
		"error.captcha_required":         "Please complete the captcha",
		"error.captcha_invalid":          "Wrong captcha",
		"error.captcha_generate_failed":  "Failed to generate captcha",
		"error.captcha_unavailable":      "Captcha is not enabled",
		"error.password_reset_failed":    "Failed to request a password reset",

		"error.restaurant_update_failed":    "Failed to update the restaurant",
		"error.subscription_update_failed":  "Failed to update the subscription",
		"error.plan_invalid":                "Invalid plan",
		"error.subscription_status_invalid": "Invalid subscription status",
		"error.reset_failed":                "Failed to reset data",
		"error.dashboard_fetch_failed":      "Failed to load the dashboard",

		"message.password_reset_requested": "If the email is registered you will receive reset instructions",
		"message.register_pending":         "Registered. Your restaurant goes live once approved.",
		"message.data_reset":               "Data reset to its initial state",

		"label.delivery_mode.pickup":   "Store pickup",
		"label.delivery_mode.dine-in":  "Dine in",
		"label.delivery_mode.delivery": "Home delivery",

		"export.sheet_orders":   "Orders",
		"export.col_id":         "Order",
		"export.col_created_at": "Date",
		"export.col_customer":   "Customer",
		"export.col_phone":      "Phone",
		"export.col_mode":       "Delivery",
		"export.col_address":    "Address",
		"export.col_items":      "Items",
		"export.col_total":      "Total",
		"export.col_status":     "Status",
	},
}
