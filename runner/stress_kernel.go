package runner

import "fmt"

// StressKernelName is the name of the kernel built by NewStressRunner.
const StressKernelName = "voigtStress"

// stressKernelSource multiplies every Voigt strain of every partition by the
// static compressed matrix C. C[b][a] holds C(a,b).
func stressKernelSource(kernelName string) string {
	return fmt.Sprintf(`
@kernel void %s(
	const int_t* K,
	const real_t* Strain_global,
	const int_t* Strain_offsets,
	real_t* Stress_global,
	const int_t* Stress_offsets
) {
	for (int part = 0; part < NPART; ++part; @outer) {
		const real_t* E = Strain_PART(part);
		real_t* S = Stress_PART(part);

		for (int p = 0; p < KpartMax; ++p; @inner) {
			if (p < K[part]) {
				const real_t* e = E + p*NVOIGT;
				real_t* s = S + p*NVOIGT;
				for (int a = 0; a < NVOIGT; ++a) {
					real_t sum = REAL_ZERO;
					for (int b = 0; b < NVOIGT; ++b) {
						sum += C[b][a]*e[b];
					}
					s[a] = sum;
				}
			}
		}
	}
}`, kernelName)
}
