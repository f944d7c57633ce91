package commerce

// GraphQL documents for the operations the storefront depends on. Checkout
// reads deliberately request the same field set so a cached view can be built
// from any of them.

const checkoutFields = `
	id
	channel { slug }
	user { id email }
	totalQuantity
	lines { id quantity variant { id } }
`

const queryShop = `query Shop { shop { name } }`

const queryCheckoutFind = `query CheckoutFind($id: ID!) {
	checkout(id: $id) {` + checkoutFields + `}
}`

const mutationCheckoutCreate = `mutation CheckoutCreate($channel: String!) {
	checkoutCreate(input: { channel: $channel, lines: [] }) {
		checkout {` + checkoutFields + `}
		errors { field message code }
	}
}`

const mutationCheckoutLinesAdd = `mutation CheckoutLinesAdd($id: ID!, $variantId: ID!) {
	checkoutLinesAdd(id: $id, lines: [{ quantity: 1, variantId: $variantId }]) {
		checkout {` + checkoutFields + `}
		errors { field message code }
	}
}`

const mutationCheckoutLinesDelete = `mutation CheckoutLinesDelete($id: ID!, $lineIds: [ID!]!) {
	checkoutLinesDelete(id: $id, linesIds: $lineIds) {
		checkout {` + checkoutFields + `}
		errors { field message code }
	}
}`

const mutationCheckoutCustomerAttach = `mutation CheckoutCustomerAttach($id: ID!) {
	checkoutCustomerAttach(id: $id) {
		checkout { id user { id email } }
		errors { field message code }
	}
}`

const queryCurrentUser = `query CurrentUser { me { id email } }`

const mutationTokenCreate = `mutation TokenCreate($email: String!, $password: String!) {
	tokenCreate(email: $email, password: $password) {
		token
		refreshToken
		errors { field message code }
	}
}`

const mutationTokenRefresh = `mutation TokenRefresh($refreshToken: String!) {
	tokenRefresh(refreshToken: $refreshToken) {
		token
		errors { field message code }
	}
}`

const queryProductList = `query ProductList($channel: String!, $first: Int!, $after: String) {
	products(channel: $channel, first: $first, after: $after) {
		edges {
			node {
				id
				slug
				name
				thumbnail { url }
				pricing { priceRange { start { gross { amount currency } } } }
			}
		}
		pageInfo { endCursor hasNextPage }
	}
}`
