// Package regression fits the polynomial part of sumo proxies.
//
// A regression works on prepared vectors: the leading ordinal variables are
// scaled to [-1, 1] and the trailing variables are 0/1 dummies encoding the
// categorical parameters. The fitted Polynomial is a linear combination of
// Monomials, products of at most two variables.
//
// # Key Features
//
//   - **Initial Terms by Order**: intercept, linear, quadratic and linear plus
//     pure quadratic term sets, restricted by a variable partition
//   - **Least Squares**: normal equations with an LU inverse, falling back to
//     the SVD pseudo-inverse for rank deficient design matrices
//   - **Fit Statistics**: adjusted R², RMSE, leverages and coefficient
//     standard errors
//   - **Model Search**: greedy forward addition of terms towards a target
//     adjusted R², then backward elimination by Student-t test
//
// # Usage
//
//	est, err := regression.NewOLSEstimator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := est.Fit(regression.FitRequest{
//	    Params:      prepared,
//	    Targets:     targets,
//	    NbOrdinals:  3,
//	    Order:       regression.OrderLinear,
//	    ModelSearch: true,
//	    TargetR2:    0.95,
//	    ConfLevel:   95,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(res.Polynomial)
//	value := res.Polynomial.Evaluate(query)
//
// # Orders
//
// Dummy variables always enter linearly, acting as per-category intercepts,
// and products of two dummies are never formed:
//
//   - **OrderIntercept**: intercept and dummies
//   - **OrderLinear**: adds the ordinals and the ordinal×dummy products
//   - **OrderQuadratic**: adds every product of two ordinals
//   - **OrderPureQuadratic**: adds the squares of the ordinals only
//
// The proxy package consumes fits through the Estimator interface, so any
// implementation can replace OLSEstimator.
package regression
